// Package config loads the service definition a collection pass runs against.
//
// The definition is a serverless.yml style YAML document. Only the keys the
// collector reads are modeled:
//
//	service: shop
//	provider:
//	  name: aws
//	  stage: dev
//	custom:
//	  annotations:
//	    pattern: "**/*.go"
//	    ignore: [shared, vendor]
//	    handlers:
//	      Handler:
//	        runtime: provided.al2
//	    invocation: declaration
//	    requiredVersion: ">= 1.0"
//	    routes: [Route]
//	functions:
//	  legacy:
//	    handler: legacy/main.Handle
//
// Missing annotation settings are filled in by Parse; a missing root defaults
// to the directory of the loaded file.
package config
