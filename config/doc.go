// Package config handles network registry loading and validation.
//
// Configuration is loaded from networks.yml and validated using struct
// tags. The registry declares one entry per transit network: which
// protocol family it speaks, its endpoints, its transport-mode table and
// its station-name splitting conventions.
package config
