// Package config loads head.yaml, the configuration file of the headctl
// command.
//
// # Configuration File Structure
//
//	server:
//	  addr: ":8080"
//	  page: index.html
//	  live: true
//	metrics:
//	  enabled: true
//	  namespace: head
//	render:
//	  marker_attr: data-head-attrs
//	title_template: "%s | Example"
//	entries:
//	  - input:
//	      title: Home
//	      htmlAttrs: {lang: en}
//	      meta:
//	        - {name: description, content: Welcome}
//	  - raw: true
//	    input:
//	      script: {innerHTML: "window.ready = true"}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
