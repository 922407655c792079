// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package orchestrator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/lian/internal/adapters/network"
	"github.com/janderssonse/lian/internal/config"
	"go.uber.org/zap"
)

// SettingKey identifies one editable setting.
type SettingKey int

// Setting keys.
const (
	KeyNone SettingKey = iota
	KeyAIUpdate
	KeyAIInstall
	KeyAIRemove
	KeyModel
	KeyTemperature
	KeyAPIURL
	KeyAPIKey
	KeyProxy
	KeyReportDir
)

// SettingKind is how a setting row behaves.
type SettingKind int

// Setting kinds.
const (
	KindSection SettingKind = iota
	KindToggle
	KindText
)

// Setting describes one row of the settings list.
type Setting struct {
	Kind   SettingKind
	Key    SettingKey
	Label  string
	Value  string
	Masked bool
}

// Display returns the value as shown in the list.
func (s Setting) Display() string {
	switch {
	case s.Kind == KindToggle && s.Value == "true":
		return "on"
	case s.Kind == KindToggle:
		return "off"
	case s.Masked:
		return maskSecret(s.Value)
	case s.Value == "":
		return "(not set)"
	default:
		return s.Value
	}
}

func maskSecret(v string) string {
	if v == "" {
		return "(not set)"
	}

	if len(v) <= 8 {
		return strings.Repeat("•", len(v))
	}

	return v[:3] + strings.Repeat("•", 8) + v[len(v)-4:]
}

// Settings returns the rows for cfg.
func Settings(cfg config.Config) []Setting {
	toggle := func(key SettingKey, label string, v bool) Setting {
		return Setting{Kind: KindToggle, Key: key, Label: label, Value: strconv.FormatBool(v)}
	}
	text := func(key SettingKey, label, v string) Setting {
		return Setting{Kind: KindText, Key: key, Label: label, Value: v}
	}

	apiKey := text(KeyAPIKey, "API key", cfg.APIKey)
	apiKey.Masked = true

	return []Setting{
		{Kind: KindSection, Label: "AI analysis"},
		toggle(KeyAIUpdate, "Analyze updates", cfg.AI.Update),
		toggle(KeyAIInstall, "Analyze installs", cfg.AI.Install),
		toggle(KeyAIRemove, "Analyze removals", cfg.AI.Remove),
		{Kind: KindSection, Label: "Model"},
		text(KeyModel, "Model", cfg.Model),
		text(KeyTemperature, "Temperature", strconv.FormatFloat(cfg.Temperature, 'f', -1, 64)),
		text(KeyAPIURL, "API URL", cfg.APIURL),
		apiKey,
		{Kind: KindSection, Label: "Network and storage"},
		text(KeyProxy, "Proxy", cfg.Proxy),
		text(KeyReportDir, "Report directory", cfg.ReportDir),
	}
}

// applySetting stores value into cfg for key, validating it first.
func applySetting(cfg *config.Config, key SettingKey, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case KeyAIUpdate:
		cfg.AI.Update = !cfg.AI.Update
	case KeyAIInstall:
		cfg.AI.Install = !cfg.AI.Install
	case KeyAIRemove:
		cfg.AI.Remove = !cfg.AI.Remove
	case KeyModel:
		if value == "" {
			return errors.New("model must not be empty")
		}

		cfg.Model = value
	case KeyTemperature:
		t, err := config.ParseTemperature(value)
		if err != nil {
			return err
		}

		cfg.Temperature = t
	case KeyAPIURL:
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return errors.New("API URL must start with http:// or https://")
		}

		cfg.APIURL = value
	case KeyAPIKey:
		cfg.APIKey = value
	case KeyProxy:
		if value != "" && !network.IsProxyURL(value) {
			return fmt.Errorf("%w: %q", network.ErrInvalidProxy, value)
		}

		cfg.Proxy = value
	case KeyReportDir:
		if value == "" {
			return errors.New("report directory must not be empty")
		}

		cfg.ReportDir = value
	default:
		return fmt.Errorf("setting %d is not editable", key)
	}

	return nil
}

func (o *Orchestrator) enterSettings() {
	o.settings.epoch++
	o.settings = SettingsState{Draft: o.cfg, epoch: o.settings.epoch}
	o.settings.Cursor = nextSetting(Settings(o.settings.Draft), -1, 1)
}

// nextSetting finds the next selectable row from i in direction dir.
func nextSetting(rows []Setting, i, dir int) int {
	for j := i + dir; j >= 0 && j < len(rows); j += dir {
		if rows[j].Kind != KindSection {
			return j
		}
	}

	return min(max(i, 0), len(rows)-1)
}

func (o *Orchestrator) settingsAction(a Action) tea.Cmd {
	st := &o.settings
	rows := Settings(st.Draft)

	if st.Editing {
		switch a {
		case ActionConfirm:
			if err := applySetting(&st.Draft, rows[st.Cursor].Key, st.EditText); err != nil {
				st.Err = err.Error()

				return nil
			}

			st.Editing, st.Dirty, st.Err = false, true, ""
		case ActionBack:
			st.Editing, st.Err = false, ""
		}

		return nil
	}

	switch a {
	case ActionUp:
		st.Cursor = nextSetting(rows, st.Cursor, -1)
	case ActionDown:
		st.Cursor = nextSetting(rows, st.Cursor, 1)
	case ActionConfirm:
		row := rows[st.Cursor]
		st.Notice, st.Err = "", ""

		switch row.Kind {
		case KindToggle:
			_ = applySetting(&st.Draft, row.Key, "")
			st.Dirty = true
		case KindText:
			st.Editing = true
			st.EditText = row.Value
		}
	case ActionSave:
		if st.Saving {
			return nil
		}

		st.Saving, st.Err = true, ""

		return o.saveSettingsCmd(st.epoch, st.Draft)
	case ActionBack:
		return o.enter(ModeDashboard)
	}

	return nil
}

func (o *Orchestrator) settingsInput(text string) {
	if o.settings.Editing {
		o.settings.EditText = text
	}
}

func (o *Orchestrator) applySettingsSaved(msg settingsSaved) {
	if msg.err == nil {
		o.cfg = msg.cfg
		o.logger.Info("settings saved")
	} else {
		o.logger.Warn("settings save failed", zap.Error(msg.err))
	}

	st := &o.settings
	if msg.epoch != st.epoch {
		return
	}

	st.Saving = false

	if msg.err != nil {
		st.Err = "Settings not saved: " + msg.err.Error()

		return
	}

	st.Draft, st.Dirty, st.Notice = msg.cfg, false, "Settings saved"
}
