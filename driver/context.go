package driver

import (
	"fmt"
	"io"
	"sync"
)

// ConnectionState is a backend session acquired for one dispatch.
type ConnectionState interface {
	io.Closer
}

// RunnableContext pairs a handler with the session it runs on. Cleanup must be
// called on every path once the context is obtained.
type RunnableContext struct {
	handler OperationHandler
	state   ConnectionState
	session string
	release func()
	once    sync.Once
	err     error
}

func (c *RunnableContext) OperationHandler() OperationHandler {
	return c.handler
}

func (c *RunnableContext) DbConnectionState() ConnectionState {
	return c.state
}

// Identifies the session in logs
func (c *RunnableContext) Session() string {
	return c.session
}

// Cleanup releases the session exactly once. Later calls return the first result.
func (c *RunnableContext) Cleanup() error {
	c.once.Do(func() {
		defer c.release()
		if err := c.state.Close(); err != nil {
			c.err = fmt.Errorf("%w: session %s: %v", ErrResourceRelease, c.session, err)
		}
	})
	return c.err
}
