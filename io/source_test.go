package io

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRom_Receive(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []byte{0x4e, 0x2f, 0x50, 0x00}}

	var got []byte
	for value := range rom.Receive() {
		got = append(got, value)
	}

	assert.Equal(rom.Data, got)

	// Every Receive starts over.
	rom.Rewind()
	count := 0
	for range rom.Receive() {
		count++
	}
	assert.Equal(4, count)
}

func TestRom_Receive_EarlyStop(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []byte{1, 2, 3, 4}}

	count := 0
	for range rom.Receive() {
		count++
		if count == 2 {
			break
		}
	}

	assert.Equal(2, count)
}

func TestRom_Send(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}
	assert.ErrorIs(rom.Send(0x55), ErrReadOnly)
}

func TestTape_Receive(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: bytes.NewBuffer([]byte{0x55, 0xaa, 0xff})}

	var got []byte
	for value := range tape.Receive() {
		got = append(got, value)
	}

	assert.Equal([]byte{0x55, 0xaa, 0xff}, got)

	// A tape cannot be rewound: the stream stays consumed.
	tape.Rewind()
	count := 0
	for range tape.Receive() {
		count++
	}
	assert.Equal(0, count)
}

func TestTape_Receive_ReadError(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: &errorReader{}}

	count := 0
	for range tape.Receive() {
		count++
	}

	assert.Equal(0, count)
}

type errorReader struct{}

func (er *errorReader) Read(p []byte) (n int, err error) {
	return 0, io.ErrUnexpectedEOF
}

func TestTape_Send(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	tape := &Tape{Output: output}

	assert.NoError(tape.Send(0x55))
	assert.NoError(tape.Send(0xaa))
	assert.Equal([]byte{0x55, 0xaa}, output.Bytes())
}

func TestTape_Send_NoOutput(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	assert.ErrorIs(tape.Send(0x55), ErrNoOutput)
}
