package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ladis-lite/replay"
)

func TestHandleInit_BareAndWrappedScript(t *testing.T) {
	bare := []byte(`{"players":["a","b","c","d"],"rng":{"seed":3},"actions":[{"type":"skip","seat":0}]}`)
	wrapped := []byte(`{"script":{"players":["a","b","c","d"],"rng":{"seed":3},"actions":[{"type":"skip","seat":0}]}}`)

	a := handleInit(bare, false)
	b := handleInit(wrapped, false)
	require.True(t, a.OK, "%+v", a.Error)
	require.True(t, b.OK, "%+v", b.Error)
	assert.Equal(t, a.Tape, b.Tape)
	assert.Equal(t, replay.EventAction, a.Tape.Events[len(a.Tape.Events)-1].Type)
}

func TestHandleInit_Wire(t *testing.T) {
	resp := handleInit([]byte(`{"players":["a","b","c","d"]}`), true)
	require.True(t, resp.OK)
	require.NotNil(t, resp.WireTape)
	assert.Nil(t, resp.Tape)
	require.Len(t, resp.WireTape.Events, 1)
	assert.NotEmpty(t, resp.WireTape.Events[0].EnvelopeB64)
}

func TestHandleInit_Errors(t *testing.T) {
	resp := handleInit([]byte(`{`), false)
	require.False(t, resp.OK)
	assert.Equal(t, "invalid_json", resp.Error.Reason)

	resp = handleInit([]byte(`{"players":["a","b","c","d"],"actions":[{"type":"trump","seat":0,"suit":"h"}]}`), false)
	require.False(t, resp.OK)
	assert.Equal(t, "wrong_phase", resp.Error.Reason)
	assert.EqualValues(t, 0, resp.Error.StepIndex)
}
