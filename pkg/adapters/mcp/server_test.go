package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/enigma/pkg/adapters/memory"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer() *Server {
	return NewServer(session.NewManager(memory.NewStore()))
}

// classicArgs mirrors what a client sends: JSON numbers decode as float64.
func classicArgs(extra map[string]interface{}) map[string]interface{} {
	args := map[string]interface{}{
		"rotors": []interface{}{float64(1), float64(2), float64(3)},
		"code":   "aaa",
	}
	for k, v := range extra {
		args[k] = v
	}
	return args
}

func TestHandleEncrypt(t *testing.T) {
	s := newServer()
	resp, err := s.handleEncrypt(context.Background(), mcp.CallToolRequest{}, classicArgs(map[string]interface{}{"text": "AAAAA"}))
	require.NoError(t, err)
	assert.Equal(t, EncryptResponse{Text: "BDZGO", Positions: "AAF"}, resp)
}

func TestHandleEncrypt_FullSettings(t *testing.T) {
	s := newServer()
	args := classicArgs(map[string]interface{}{
		"ring_offsets":     []interface{}{float64(0), float64(0), float64(1)},
		"plugboard":        []interface{}{"ab", "CD"},
		"drop_punctuation": true,
		"text":             "Hello, World",
	})
	cipher, err := s.handleEncrypt(context.Background(), mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	assert.Len(t, cipher.Text, len("HelloWorld"))

	args["text"] = cipher.Text
	plain, err := s.handleEncrypt(context.Background(), mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	assert.Equal(t, "HelloWorld", plain.Text, "case survives, punctuation does not")
}

func TestHandleEncrypt_InvalidSettings(t *testing.T) {
	s := newServer()
	args := map[string]interface{}{
		"rotors": []interface{}{float64(1), float64(2)},
		"code":   "AA",
		"text":   "A",
	}
	_, err := s.handleEncrypt(context.Background(), mcp.CallToolRequest{}, args)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	args = classicArgs(map[string]interface{}{"rotors": "one,two", "text": "A"})
	_, err = s.handleEncrypt(context.Background(), mcp.CallToolRequest{}, args)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestHandleTrace(t *testing.T) {
	s := newServer()
	resp, err := s.handleTrace(context.Background(), mcp.CallToolRequest{}, classicArgs(map[string]interface{}{"letter": "A"}))
	require.NoError(t, err)
	assert.Equal(t, "B", resp.Output)
	assert.Equal(t, "AACDFSSEBB", resp.Path)
	assert.Contains(t, resp.Mermaid, "graph TD")

	_, err = s.handleTrace(context.Background(), mcp.CallToolRequest{}, classicArgs(map[string]interface{}{"letter": "AB"}))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestSessionTools(t *testing.T) {
	s := newServer()
	ctx := context.Background()

	created, err := s.handleCreateSession(ctx, mcp.CallToolRequest{}, classicArgs(map[string]interface{}{"id": "ops"}))
	require.NoError(t, err)
	assert.Equal(t, "ops", created.Name)
	assert.Equal(t, "AAA", created.Positions)

	first, err := s.handleSessionEncrypt(ctx, mcp.CallToolRequest{}, map[string]interface{}{"id": "ops", "text": "AAA"})
	require.NoError(t, err)
	second, err := s.handleSessionEncrypt(ctx, mcp.CallToolRequest{}, map[string]interface{}{"id": "ops", "text": "AA"})
	require.NoError(t, err)
	assert.Equal(t, "BDZGO", first.Text+second.Text)
	assert.Equal(t, "AAF", second.Positions)

	reset, err := s.handleSessionReset(ctx, mcp.CallToolRequest{}, map[string]interface{}{"id": "ops"})
	require.NoError(t, err)
	assert.Equal(t, "AAA", reset.Positions)

	_, err = s.handleSessionEncrypt(ctx, mcp.CallToolRequest{}, map[string]interface{}{"id": "ghost", "text": "A"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestCreateSession_GeneratedID(t *testing.T) {
	s := newServer()
	created, err := s.handleCreateSession(context.Background(), mcp.CallToolRequest{}, classicArgs(nil))
	require.NoError(t, err)
	assert.Len(t, created.Name, 36)
}

func TestReadRotors(t *testing.T) {
	s := newServer()
	contents, err := s.readRotors(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, RotorsURI, text.URI)

	var info tablesInfo
	require.NoError(t, json.Unmarshal([]byte(text.Text), &info))
	require.Len(t, info.Rotors, 5)
	assert.Equal(t, "V", info.Rotors[2].Notch)
}
