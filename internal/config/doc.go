// Package config provides configuration parsing for vtree.
//
// The configuration is stored in vtree.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "modules": ["attributes", "class", "style", "eventlisteners"],
//	  "logLevel": "debug",
//	  "server": {
//	    "addr": ":7070",
//	    "maxBodyBytes": 1048576,
//	    "allowedOrigins": ["https://example.com"]
//	  },
//	  "snapshot": {
//	    "backend": "s3",
//	    "bucket": "my-bucket",
//	    "prefix": "vtree/"
//	  },
//	  "metrics": {"enabled": true, "namespace": "app"},
//	  "tracing": {"enabled": false}
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Addr:", cfg.Server.Addr)
package config
