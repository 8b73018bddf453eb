// Package plugin runs user-authored statement parsers as subprocesses.
// A plugin speaks line-delimited JSON-RPC 2.0 over stdin/stdout: the tool
// sends a to_transactions request with the statement text, and the plugin
// answers with transaction records, optionally emitting them one at a time
// through emit_transaction callbacks while it works.
package plugin

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// JSON-RPC 2.0 message types.

type Request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	ID      any    `json:"id,omitempty"`
}

// Response is a JSON-RPC 2.0 response.
// Result must NOT have omitempty — nil results stall plugins waiting on an ack.
type Response struct {
	JSONRPC string    `json:"jsonrpc"`
	Result  any       `json:"result"`
	Error   *RPCError `json:"error,omitempty"`
	ID      any       `json:"id"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type rawMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      any             `json:"id,omitempty"`
}

// CallbackHandler handles a callback request from the plugin. The returned
// value becomes the JSON-RPC result sent back.
type CallbackHandler func(params json.RawMessage) (any, error)

// callTimeout bounds how long a single request to a plugin may take.
const callTimeout = 30 * time.Second

type rpcResult struct {
	raw json.RawMessage
	err *RPCError
}

// conn manages JSON-RPC traffic with a running plugin over a stdio pair.
type conn struct {
	w        io.Writer
	reader   *bufio.Reader
	mu       sync.Mutex
	nextID   int
	pending  map[int]chan rpcResult
	handlers map[string]CallbackHandler
	done     chan struct{}
}

func newConn(w io.Writer, r io.Reader) *conn {
	return &conn{
		w:        w,
		reader:   bufio.NewReader(r),
		pending:  make(map[int]chan rpcResult),
		handlers: make(map[string]CallbackHandler),
		done:     make(chan struct{}),
	}
}

// handle registers a handler for a named callback method.
func (c *conn) handle(method string, h CallbackHandler) {
	c.handlers[method] = h
}

// call sends a request and waits for the plugin's response.
func (c *conn) call(method string, params any) (json.RawMessage, error) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	ch := make(chan rpcResult, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	if err := c.send(Request{JSONRPC: "2.0", Method: method, Params: params, ID: id}); err != nil {
		return nil, err
	}

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("plugin error: %s", res.err.Message)
		}
		return res.raw, nil
	case <-c.done:
		return nil, errors.New("plugin exited before responding")
	case <-time.After(callTimeout):
		return nil, fmt.Errorf("plugin did not respond to %s within %s", method, callTimeout)
	}
}

// notify sends a request without an ID and does not wait for a response.
func (c *conn) notify(method string) error {
	return c.send(Request{JSONRPC: "2.0", Method: method})
}

func (c *conn) send(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	c.mu.Lock()
	_, err = fmt.Fprintf(c.w, "%s\n", data)
	c.mu.Unlock()
	return err
}

// readLoop routes incoming lines until the plugin closes its stdout.
// Callbacks run synchronously so emitted transactions keep their order.
func (c *conn) readLoop() {
	defer close(c.done)
	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			return
		}

		var msg rawMessage
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			continue
		}

		// Response to one of our outgoing requests.
		if msg.Method == "" && (msg.Result != nil || msg.Error != nil) {
			id := toInt(msg.ID)
			c.mu.Lock()
			ch, ok := c.pending[id]
			if ok {
				delete(c.pending, id)
			}
			c.mu.Unlock()
			if ok {
				ch <- rpcResult{raw: msg.Result, err: msg.Error}
			}
			continue
		}

		// Callback request from the plugin.
		if msg.Method != "" {
			c.handleCallback(msg)
		}
	}
}

func (c *conn) handleCallback(msg rawMessage) {
	handler, ok := c.handlers[msg.Method]
	if !ok {
		_ = c.send(Response{
			JSONRPC: "2.0",
			Error:   &RPCError{Code: -32601, Message: "unknown method: " + msg.Method},
			ID:      msg.ID,
		})
		return
	}

	result, err := handler(msg.Params)
	if err != nil {
		_ = c.send(Response{
			JSONRPC: "2.0",
			Error:   &RPCError{Code: -32000, Message: err.Error()},
			ID:      msg.ID,
		})
		return
	}

	_ = c.send(Response{JSONRPC: "2.0", Result: result, ID: msg.ID})
}

func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}
