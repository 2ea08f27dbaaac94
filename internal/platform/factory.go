package platform

import (
	"context"

	"github.com/aretw0/introspection"

	"github.com/aretw0/quicknotes/pkg/core"
	"github.com/aretw0/quicknotes/pkg/storage"
)

// Notebook is an opened note collection together with the store behind it.
type Notebook struct {
	*core.Collection
	Store   core.ByteStore
	Adapter *storage.Adapter
	close   func() error
}

// NotebookState groups the state of every component of a Notebook.
type NotebookState struct {
	Collection any    `json:"collection"`
	Store      any    `json:"store,omitempty"`
	StoreType  string `json:"store_type"`
}

// New opens the byte store selected by the options, wraps it in the
// storage adapter and loads the collection.
//
//	nb, err := platform.New(ctx, "./notes", platform.WithAdapter("fs"), platform.WithAutoInit(true))
func New(ctx context.Context, uri string, opts ...Option) (*Notebook, error) {
	o := applyOptions(opts)

	codec, err := codecFor(o)
	if err != nil {
		return nil, err
	}

	store, closeFn, err := openStore(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	logger := loggerFor(o)
	adapter := storage.NewAdapter(store, storage.Config{
		Codec:  codec,
		Logger: logger,
	})
	collection := core.NewCollection(ctx, adapter, core.Config{
		Key:      o.key,
		Logger:   logger,
		Language: o.language,
	})
	logger.Debug("notebook opened", "adapter", o.adapter, "codec", codec.Name(), "key", o.key, "notes", collection.Len())

	return &Notebook{
		Collection: collection,
		Store:      store,
		Adapter:    adapter,
		close:      closeFn,
	}, nil
}

// Close releases the store's connections.
func (n *Notebook) Close() error {
	if n.close == nil {
		return nil
	}
	return n.close()
}

// State implements introspection.Introspectable.
func (n *Notebook) State() any {
	s := NotebookState{
		Collection: n.Collection.State(),
		StoreType:  "store",
	}
	if c, ok := n.Store.(introspection.Component); ok {
		s.StoreType = c.ComponentType()
	}
	if i, ok := n.Store.(introspection.Introspectable); ok {
		s.Store = i.State()
	}
	return s
}

// ComponentType implements introspection.Component.
func (n *Notebook) ComponentType() string {
	return "notebook"
}

var _ introspection.Introspectable = (*Notebook)(nil)
