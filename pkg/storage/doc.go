// Package storage manages a target's output directory.
//
// Every report file is written through a temporary file and renamed into
// place, so a crash never leaves a half-written report behind. The Manager
// remembers what it wrote so callers can list the artifacts of a run.
//
// Usage:
//
//	manager, err := storage.NewTargetManager(".", "jdoe") // ./jdoe_recon
//	if err != nil {
//	    return err
//	}
//	path, err := manager.WriteFile("jdoe_recon.json", data)
package storage
