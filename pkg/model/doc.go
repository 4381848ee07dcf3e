// Package model describes REST resources and turns CRUD intents into HTTP
// requests.
//
// A Model knows where its resource lives (namespace, parent resources,
// routing mode) and how to reach it: index, find, create, update, delete and
// any custom member or collection actions declared in its Config. It holds
// no record state; stores in package store own that.
//
// Paths are composed as follows:
//
//	index path  = namespace + /type/id for each parent + /path_index_key
//	              (/name instead in single mode)
//	member path = index path + /id
//	              (namespace/path_index_key/id in shallow mode when id is an integer)
//
// A Blueprint plays the role of a model type: it carries a type name, used to
// derive the resource name, and default configuration that per-instance
// Config values override.
//
//	var Example = model.Define("Example", model.Config{
//	    Namespace: "/namespace/role",
//	    Parents:   []model.Parent{{Type: "projects", ID: "1"}},
//	    Actions:   []model.Action{{Name: "action", Method: http.MethodPost, On: model.OnCollection}},
//	})
//
//	m, err := Example.New(model.Config{})
//	m.IndexPath() // "/namespace/role/projects/1/examples"
package model
