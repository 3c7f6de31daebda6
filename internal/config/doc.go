// Package config loads statekit.json, the configuration file of the
// statekit inspector.
//
// # Configuration File Structure
//
//	{
//	  "inspector": {
//	    "host": "localhost",
//	    "port": 7070,
//	    "doc": "state.json"
//	  },
//	  "metrics": {
//	    "namespace": "statekit"
//	  },
//	  "tracing": {
//	    "tracerName": "statekit/inspector"
//	  },
//	  "prefs": {
//	    "backend": "file",
//	    "dir": ".statekit/prefs"
//	  },
//	  "logLevel": "info"
//	}
//
// Every field is optional. Relative paths resolve against the directory
// holding statekit.json.
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
