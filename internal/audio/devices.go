// Package audio discovers Pulse input sources and captures the PCM stream
// the utterance segmenter consumes.
package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

const appName = "serenade"

// Device describes one Pulse input source.
type Device struct {
	ID          string
	Description string
	Default     bool
	Muted       bool
	Available   bool
	State       string
}

// Selection is the device chosen for capture. Warning is set when the
// configured input lost out to a fallback.
type Selection struct {
	Device   Device
	Fallback bool
	Warning  string
}

// connectPulse opens a client identified as serenade in Pulse tooling.
func connectPulse() (*pulse.Client, error) {
	client, err := pulse.NewClient(
		pulse.ClientApplicationIconName("audio-input-microphone"),
		pulse.ClientApplicationName(appName),
	)
	if err != nil {
		return nil, fmt.Errorf("dial pulseaudio: %w", err)
	}
	return client, nil
}

func defaultSourceID(client *pulse.Client) (string, error) {
	source, err := client.DefaultSource()
	if err != nil {
		return "", fmt.Errorf("read default source: %w", err)
	}
	return source.ID(), nil
}

// ListDevices returns the Pulse input sources with default, availability,
// and mute metadata.
func ListDevices(_ context.Context) ([]Device, error) {
	client, err := connectPulse()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	var reply pulseproto.GetSourceInfoListReply
	if err := client.RawRequest(&pulseproto.GetSourceInfoList{}, &reply); err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defaultID, err := defaultSourceID(client)
	if err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(reply))
	for _, source := range reply {
		if source == nil {
			continue
		}
		devices = append(devices, deviceFromSource(source, defaultID))
	}
	return devices, nil
}

func deviceFromSource(source *pulseproto.GetSourceInfoReply, defaultID string) Device {
	return Device{
		ID:          source.SourceName,
		Description: source.Device,
		Default:     source.SourceName == defaultID,
		Muted:       source.Mute,
		Available:   sourceAvailable(source),
		State:       sourceStateString(source.State),
	}
}

// SelectDevice lists live sources and applies the input/fallback policy.
func SelectDevice(ctx context.Context, input, fallback string) (Selection, error) {
	devices, err := ListDevices(ctx)
	if err != nil {
		return Selection{}, err
	}
	return selectFrom(devices, input, fallback)
}

// selectFrom decides which device captures: the configured input when it
// is usable, otherwise the configured fallback (or the server default)
// with a warning attached.
func selectFrom(devices []Device, input, fallback string) (Selection, error) {
	if len(devices) == 0 {
		return Selection{}, errors.New("no audio input devices found")
	}

	input = strings.ToLower(strings.TrimSpace(input))
	fallback = strings.ToLower(strings.TrimSpace(fallback))

	primary, err := resolvePrimary(devices, input)
	if err != nil {
		return Selection{}, err
	}
	reason := usabilityProblem(*primary)
	if reason == "" {
		return Selection{Device: *primary}, nil
	}

	substitute, err := resolveFallback(devices, fallback, primary.ID, reason)
	if err != nil {
		return Selection{}, err
	}
	switch {
	case !substitute.Available:
		return Selection{}, fmt.Errorf("audio fallback device %q is not available", substitute.ID)
	case substitute.Muted:
		return Selection{}, fmt.Errorf("audio fallback device %q is muted", substitute.ID)
	}

	return Selection{
		Device:   *substitute,
		Fallback: substitute.ID != primary.ID,
		Warning:  fmt.Sprintf("audio.input %q is %s; falling back to %q", primary.ID, reason, substitute.ID),
	}, nil
}

// usabilityProblem names why a device cannot capture, or "" when it can.
func usabilityProblem(d Device) string {
	switch {
	case d.Muted:
		return "muted"
	case !d.Available:
		return "unavailable"
	}
	return ""
}

func resolvePrimary(devices []Device, input string) (*Device, error) {
	if input == "" || input == "default" {
		if dev := findDefault(devices); dev != nil {
			return dev, nil
		}
		return nil, errors.New("default audio source is unavailable")
	}
	if dev := findMatch(devices, input); dev != nil {
		return dev, nil
	}
	return nil, fmt.Errorf("audio.input %q did not match any device", input)
}

func resolveFallback(devices []Device, fallback, primaryID, reason string) (*Device, error) {
	if fallback != "" && fallback != "default" {
		if dev := findMatch(devices, fallback); dev != nil {
			return dev, nil
		}
		return nil, fmt.Errorf("primary input %q is %s and fallback %q not found", primaryID, reason, fallback)
	}
	if dev := findDefault(devices); dev != nil {
		return dev, nil
	}
	return nil, fmt.Errorf("primary input %q is %s and no usable fallback: default audio source is unavailable", primaryID, reason)
}

func findDefault(devices []Device) *Device {
	for i := range devices {
		if devices[i].Default {
			return &devices[i]
		}
	}
	return nil
}

func findMatch(devices []Device, term string) *Device {
	for i := range devices {
		if deviceMatches(devices[i], term) {
			return &devices[i]
		}
	}
	return nil
}

// deviceMatches reports whether a lowercased search term matches a device
// id or description.
func deviceMatches(device Device, term string) bool {
	if term == "" {
		return false
	}
	return strings.Contains(strings.ToLower(device.ID), term) ||
		strings.Contains(strings.ToLower(device.Description), term)
}

var sourceStates = map[uint32]string{
	0: "running",
	1: "idle",
	2: "suspended",
}

func sourceStateString(state uint32) string {
	if name, ok := sourceStates[state]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", state)
}

// sourceAvailable reduces the active port availability to a boolean. A
// source without ports counts as available.
func sourceAvailable(source *pulseproto.GetSourceInfoReply) bool {
	if source == nil {
		return false
	}
	for _, port := range source.Ports {
		if port.Name == source.ActivePortName {
			// availability 1 means no; unknown (0) still captures
			return port.Available != 1
		}
	}
	return true
}
