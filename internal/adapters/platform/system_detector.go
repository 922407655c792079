// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package platform

import (
	"context"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/janderssonse/lian/internal/domain"
)

const unknownValue = "unknown"

// SystemDetector implements the ManagerDetector and SystemProber ports.
type SystemDetector struct {
	commandRunner domain.CommandRunner
	fileManager   domain.FileManager
}

// NewSystemDetector creates a new system detector.
func NewSystemDetector(commandRunner domain.CommandRunner, fileManager domain.FileManager) *SystemDetector {
	return &SystemDetector{
		commandRunner: commandRunner,
		fileManager:   fileManager,
	}
}

// Detect returns the first available flavor in preference order.
func (d *SystemDetector) Detect(_ context.Context) (domain.Flavor, error) {
	for _, flavor := range domain.DetectionOrder {
		if d.commandRunner.CommandExists(flavor.Binary()) {
			return flavor, nil
		}
	}

	return "", domain.ErrNoPackageManager
}

// Probe collects distribution, kernel, CPU and memory. Missing sources yield
// "unknown" rather than an error.
func (d *SystemDetector) Probe(ctx context.Context) (domain.SystemInfo, error) {
	return domain.SystemInfo{
		Distro: d.distribution(),
		Kernel: d.kernelVersion(ctx),
		CPU:    d.cpuModel(),
		Memory: d.memoryTotal(),
	}, nil
}

func (d *SystemDetector) distribution() string {
	if data, err := d.fileManager.ReadFile("/etc/os-release"); err == nil {
		fields := parseKeyValues(string(data), "=")
		for _, key := range []string{"PRETTY_NAME", "NAME", "ID"} {
			if v := strings.Trim(fields[key], `"`); v != "" {
				return v
			}
		}
	}

	if data, err := d.fileManager.ReadFile("/etc/lsb-release"); err == nil {
		fields := parseKeyValues(string(data), "=")
		if v := strings.Trim(fields["DISTRIB_DESCRIPTION"], `"`); v != "" {
			return v
		}
	}

	return unknownValue
}

func (d *SystemDetector) kernelVersion(ctx context.Context) string {
	output, err := d.commandRunner.ExecuteWithOutput(ctx, "uname", "-r")
	if err != nil || strings.TrimSpace(output) == "" {
		return unknownValue
	}

	return strings.TrimSpace(output)
}

func (d *SystemDetector) cpuModel() string {
	data, err := d.fileManager.ReadFile("/proc/cpuinfo")
	if err != nil {
		return unknownValue
	}

	if v := parseKeyValues(string(data), ":")["model name"]; v != "" {
		return v
	}

	return unknownValue
}

func (d *SystemDetector) memoryTotal() string {
	data, err := d.fileManager.ReadFile("/proc/meminfo")
	if err != nil {
		return unknownValue
	}

	// MemTotal:       16314208 kB
	fields := strings.Fields(parseKeyValues(string(data), ":")["MemTotal"])
	if len(fields) == 0 {
		return unknownValue
	}

	kb, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return unknownValue
	}

	return humanize.IBytes(kb * 1024)
}

// parseKeyValues keeps the first occurrence of each key.
func parseKeyValues(content, sep string) map[string]string {
	fields := make(map[string]string)

	for _, line := range strings.Split(content, "\n") {
		key, value, ok := strings.Cut(line, sep)
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		if _, seen := fields[key]; key == "" || seen {
			continue
		}

		fields[key] = strings.TrimSpace(value)
	}

	return fields
}
