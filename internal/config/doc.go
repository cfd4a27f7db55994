// Package config reads the optional editor configuration file. The file is
// HCL: one `editor` block with session settings and any number of labelled
// `graph` blocks naming the documents to open.
//
//	editor {
//	  listen   = ":7070"
//	  fps      = 30
//	  autosave = true
//	}
//
//	graph "main" {
//	  path = "${config_dir}/main.yaml"
//	}
//
// Values left out of the file stay nil so that command-line flags can be
// layered on top without guessing which defaults were explicit.
package config
