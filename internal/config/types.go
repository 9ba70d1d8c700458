package config

// Config represents the optional dmicopy.yaml defaults file.
// Every key has a working default, so the file itself is optional.
type Config struct {
	Quiet  bool `mapstructure:"quiet"`  // suppress per-state report lines
	Color  bool `mapstructure:"color"`  // allow colored output on a terminal
	Backup bool `mapstructure:"backup"` // keep a .bak of the old destination
}
