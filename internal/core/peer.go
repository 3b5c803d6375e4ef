package core

// Frame is an encoded outbound message, ready for the wire.
type Frame []byte

// ConnID is the transport-level identity of one live connection,
// distinct from a user's stable identity.
type ConnID string

// Peer abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type Peer interface {
	TrySend(Frame) error
	Close()
}
