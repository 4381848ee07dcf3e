// Package config loads the activestore configuration.
//
// Configuration comes from four layers, highest priority first:
//
//   - Command-line flags (applied by the CLI)
//   - ACTIVESTORE_* environment variables
//   - A YAML file (activestore.yaml by default)
//   - Built-in defaults
//
// A configuration file looks like:
//
//	api:
//	  url: https://api.example.com
//	  rootPath: /v2
//	  timeout: 10s
//	storage:
//	  backend: sqlite
//	  path: .activestore/state.db
//	  key: activestore
//	log:
//	  level: info
//	models:
//	  example:
//	    type: Example
//	  ticket:
//	    namespace: /helpdesk
//	    parents:
//	      - type: projects
//	        id: 1
//	    actions:
//	      - name: close
//	        method: post
//	        on: member
//	modelFiles:
//	  - models/**/*.yaml
//
// Files matched by modelFiles hold a top-level "models" map of the same
// shape. Patterns are resolved relative to the configuration file and may
// use ** for recursive matching.
package config
