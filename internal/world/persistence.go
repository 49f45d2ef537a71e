package world

// Persistence is the external save/load collaborator. The server
// orchestrator calls SaveWorld on shutdown (nothing calls LoadWorld at
// startup); the tick loop itself never touches it, since durable chunk storage is explicitly out of scope.
//
// A concrete implementation (region files, a KV store, anything) can be
// wired in at startup without the world package depending on any
// storage library.
type Persistence interface {
	SaveWorld(w *World) error
	LoadWorld(name string) (*World, bool, error)
}

// NoopPersistence discards saves and never finds a world to load; it is
// the default when no persistence backend is configured.
type NoopPersistence struct{}

func (NoopPersistence) SaveWorld(*World) error { return nil }

func (NoopPersistence) LoadWorld(string) (*World, bool, error) { return nil, false, nil }
