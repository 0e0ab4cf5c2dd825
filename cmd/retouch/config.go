package main

import (
	"flag"
	"fmt"

	"github.com/example/retouch/internal/config"
)

type configCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *configCmd) Program() string {
	return c.root.Program() + " config"
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		fmt.Fprint(c.stdout, c.config.String())
		return nil
	case "path":
		loader := config.NewLoader(version, configPathOverride)
		path := loader.GetConfigPath()
		if path == "" {
			path = loader.DefaultPath() + " (not created yet)"
		}
		fmt.Fprintln(c.stdout, path)
		return nil
	case "save":
		path, err := config.NewLoader(version, configPathOverride).Save(c.config)
		if err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(c.stderr, "Configuration saved to %s\n", path)
		return nil
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}
