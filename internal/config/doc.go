// Package config provides configuration parsing for patchwork tooling.
//
// The configuration lives in patchwork.yaml (or patchwork.yml /
// patchwork.json) at the project root. JSON files are read by the same YAML
// decoder, so either syntax works. A missing file is not an error: the
// defaults from New are used.
//
// # Configuration File Structure
//
//	name: demo
//	server:
//	  host: localhost
//	  port: 3100
//	  metricsPath: /metrics
//	render:
//	  metrics: true
//	  tracing: false
//	  logLevel: info
//	snapshot:
//	  dir: snapshots
//	  s3:
//	    bucket: my-previews
//	    prefix: trees/
//	    region: eu-west-1
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Port:", cfg.Server.Port)
package config
