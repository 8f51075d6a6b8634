// Package factory provides the generic type registry used to construct objects
// from declarative descriptors. A registration binds a symbolic type name to
// the fields its descriptor must carry and to the constructor that builds it.
//
// Registries are filled once, during a single-threaded initialization pass,
// and then sealed:
//
//	reg := factory.NewRegistry[io.Reader]()
//	_ = reg.Register(factory.Registration[io.Reader]{
//	    Name:     "file",
//	    Required: []string{"path"},
//	    New: func(a factory.Args[io.Reader]) (io.Reader, error) {
//	        var c struct{ Path string `json:"path"` }
//	        if err := factory.Decode(a.Desc, &c); err != nil {
//	            return nil, err
//	        }
//	        return os.Open(c.Path)
//	    },
//	})
//	reg.Seal()
//	r, err := reg.Create(factory.ModuleConfig{Type: "file", Conf: map[string]any{"path": "foo"}})
package factory
