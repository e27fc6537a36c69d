// Package config loads and validates Feedgate configuration.
//
// Configuration comes from a YAML file with environment variable
// overrides (FEEDGATE_SECTION_KEY). Validation runs at load time so
// a misconfigured gateway fails at startup rather than at first
// request.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
