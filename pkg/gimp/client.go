// Package gimp drives a running GIMP instance through its Script-Fu server
// (Filters > Script-Fu > Start Server, or `gimp -i -b '(plug-in-script-fu-server ...)'`)
// and exposes it behind the host interfaces.
//
// The server speaks a small length-prefixed framing over TCP: a request is
// the byte 'G' followed by a big-endian uint16 length and that many bytes of
// Script-Fu source; a response is 'G', one error byte (zero on success), a
// big-endian uint32 length, and the printed evaluation result.
package gimp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

const (
	requestMagic = 'G'

	// A request length is carried in a uint16.
	maxScriptLen = 1<<16 - 1

	dialTimeout = 10 * time.Second
)

// ErrScript indicates the server evaluated the script and reported an
// error, as opposed to a transport failure.
var ErrScript = errors.New("script-fu error")

// Client is a connection to a Script-Fu server. Eval calls are serialized:
// the server answers requests in order on a single connection.
type Client struct {
	mu   sync.Mutex
	conn net.Conn
}

// Dial connects to a Script-Fu server, typically at 127.0.0.1:10008.
func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial script-fu server at %s: %w", addr, err)
	}
	return NewClient(conn), nil
}

// NewClient wraps an established connection.
func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn}
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Eval sends one Script-Fu expression and returns the server's printed
// result. A non-zero server error byte comes back as ErrScript with the
// server's message.
func (c *Client) Eval(script string) (string, error) {
	if len(script) > maxScriptLen {
		return "", fmt.Errorf("script of %d bytes exceeds the %d byte frame limit", len(script), maxScriptLen)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	header := make([]byte, 3)
	header[0] = requestMagic
	binary.BigEndian.PutUint16(header[1:], uint16(len(script)))
	if _, err := c.conn.Write(header); err != nil {
		return "", fmt.Errorf("write request header: %w", err)
	}
	if _, err := io.WriteString(c.conn, script); err != nil {
		return "", fmt.Errorf("write request body: %w", err)
	}

	reply := make([]byte, 6)
	if _, err := io.ReadFull(c.conn, reply); err != nil {
		return "", fmt.Errorf("read response header: %w", err)
	}
	if reply[0] != requestMagic {
		return "", fmt.Errorf("bad response magic 0x%02x", reply[0])
	}
	errCode := reply[1]
	length := binary.BigEndian.Uint32(reply[2:])

	body := make([]byte, length)
	if _, err := io.ReadFull(c.conn, body); err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if errCode != 0 {
		return "", fmt.Errorf("%w: %s", ErrScript, string(body))
	}
	return string(body), nil
}

// EvalValue evaluates a script and parses the printed result into Go
// values: lists and vectors become []any, numbers int and float64, strings
// string, #t/#f bool, and anything else Symbol.
func (c *Client) EvalValue(script string) (any, error) {
	out, err := c.Eval(script)
	if err != nil {
		return nil, err
	}
	v, err := parseSexp(out)
	if err != nil {
		return nil, fmt.Errorf("parse reply %q: %w", out, err)
	}
	return v, nil
}
