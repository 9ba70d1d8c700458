package dmi

import (
	"fmt"
	"strconv"
	"strings"
)

// The metadata block looks like:
//
//	# BEGIN DMI
//	version = 4.0
//		width = 32
//		height = 32
//	state = "idle"
//		dirs = 4
//		frames = 2
//		delay = 1,1
//	# END DMI
//
// Block membership is positional: everything after a "state" line belongs
// to that state until the next one.

func parseMetadata(text string) (*Icon, error) {
	icon := &Icon{}
	var current *State

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, " = ")
		if !ok {
			return nil, fmt.Errorf("malformed metadata line %q", line)
		}

		if key == "state" {
			name, err := unquote(value)
			if err != nil {
				return nil, fmt.Errorf("state name %s: %w", value, err)
			}
			current = &State{Name: name, Dirs: 1, Frames: 1}
			icon.States = append(icon.States, current)
			continue
		}

		if current == nil {
			if err := parseIconKey(icon, key, value); err != nil {
				return nil, err
			}
			continue
		}
		if err := parseStateKey(current, key, value); err != nil {
			return nil, err
		}
	}

	if icon.Version == "" {
		return nil, fmt.Errorf("metadata missing version")
	}
	if icon.Width <= 0 || icon.Height <= 0 {
		return nil, fmt.Errorf("metadata missing icon dimensions")
	}
	return icon, nil
}

func parseIconKey(icon *Icon, key, value string) error {
	switch key {
	case "version":
		icon.Version = value
	case "width":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("width %q: %w", value, err)
		}
		icon.Width = n
	case "height":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("height %q: %w", value, err)
		}
		icon.Height = n
	default:
		return fmt.Errorf("unexpected metadata key %q before first state", key)
	}
	return nil
}

func parseStateKey(st *State, key, value string) error {
	switch key {
	case "dirs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("state %q dirs %q: %w", st.Name, value, err)
		}
		st.Dirs = n
	case "frames":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("state %q frames %q: %w", st.Name, value, err)
		}
		st.Frames = n
	case "delay":
		for _, piece := range strings.Split(value, ",") {
			f, err := strconv.ParseFloat(piece, 64)
			if err != nil {
				return fmt.Errorf("state %q delay %q: %w", st.Name, value, err)
			}
			st.Delay = append(st.Delay, f)
		}
	case "loop":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("state %q loop %q: %w", st.Name, value, err)
		}
		st.Loop = n
	case "rewind":
		st.Rewind = value == "1"
	case "movement":
		st.Movement = value == "1"
	case "hotspot":
		st.Hotspots = append(st.Hotspots, value)
	default:
		st.Extra = append(st.Extra, [2]string{key, value})
	}
	return nil
}

func formatMetadata(icon *Icon) string {
	var b strings.Builder
	b.WriteString("# BEGIN DMI\n")
	fmt.Fprintf(&b, "version = %s\n", icon.Version)
	fmt.Fprintf(&b, "\twidth = %d\n", icon.Width)
	fmt.Fprintf(&b, "\theight = %d\n", icon.Height)
	for _, st := range icon.States {
		fmt.Fprintf(&b, "state = %s\n", quote(st.Name))
		fmt.Fprintf(&b, "\tdirs = %d\n", st.Dirs)
		fmt.Fprintf(&b, "\tframes = %d\n", st.Frames)
		if len(st.Delay) > 0 {
			b.WriteString("\tdelay = ")
			for i, d := range st.Delay {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(strconv.FormatFloat(d, 'g', -1, 64))
			}
			b.WriteByte('\n')
		}
		if st.Loop > 0 {
			fmt.Fprintf(&b, "\tloop = %d\n", st.Loop)
		}
		if st.Rewind {
			b.WriteString("\trewind = 1\n")
		}
		if st.Movement {
			b.WriteString("\tmovement = 1\n")
		}
		for _, h := range st.Hotspots {
			fmt.Fprintf(&b, "\thotspot = %s\n", h)
		}
		for _, kv := range st.Extra {
			fmt.Fprintf(&b, "\t%s = %s\n", kv[0], kv[1])
		}
	}
	b.WriteString("# END DMI\n")
	return b.String()
}

func quote(name string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(name); i++ {
		if c := name[i]; c == '"' || c == '\\' {
			b.WriteByte('\\')
			b.WriteByte(c)
		} else {
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("expected a quoted string")
	}
	var b strings.Builder
	inner := s[1 : len(s)-1]
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' {
			i++
			if i == len(inner) {
				return "", fmt.Errorf("dangling escape")
			}
		}
		b.WriteByte(inner[i])
	}
	return b.String(), nil
}
