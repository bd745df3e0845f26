package logging

import "log/slog"

// Module returns the default logger tagged with a module name.
// Retourne le logger par défaut marqué du nom de module.
func Module(name string) *slog.Logger {
	return slog.Default().With(ModuleKey, name)
}
