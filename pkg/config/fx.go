package config

import "go.uber.org/fx"

// Module provides the shared *Config. It starts out with defaults and is
// filled from the project's config file once the root command has switched to
// the project directory, so commands that don't need a project (init, help,
// version) work anywhere.
var Module = fx.Module("config", fx.Provide(Default))
