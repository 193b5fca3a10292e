package bridge

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// ProtocolVersion is announced in the VERSION message.
const ProtocolVersion = 1

type messageBase struct {
	Command string `json:"command"`
}

type versionMessage struct {
	messageBase
	Version int `json:"version"`
}

type modelResetMessage struct {
	messageBase
	Model json.RawMessage `json:"model"`
}

type dataChangedMessage struct {
	messageBase
	Identifier string          `json:"identifier"`
	Path       string          `json:"path"`
	Role       int             `json:"role"`
	Variant    json.RawMessage `json:"variant"`
}

type itemInsertedMessage struct {
	messageBase
	ParentPath string          `json:"parentPath"`
	Tag        string          `json:"tag"`
	Row        int             `json:"row"`
	Item       json.RawMessage `json:"item"`
}

type itemRemovedMessage struct {
	messageBase
	ParentPath string `json:"parentPath"`
	Tag        string `json:"tag"`
	Row        int    `json:"row"`
}

type stackChangedMessage struct {
	messageBase
	Index    int    `json:"index"`
	Count    int    `json:"count"`
	CanUndo  bool   `json:"canUndo"`
	CanRedo  bool   `json:"canRedo"`
	UndoText string `json:"undoText"`
	RedoText string `json:"redoText"`
}

type errorMessage struct {
	messageBase
	ID      int    `json:"id,omitempty"`
	Request string `json:"request"`
	Error   string `json:"error"`
}

// request is the union of all frontend messages.
type request struct {
	Command    string          `json:"command"`
	ID         int             `json:"id,omitempty"`
	Identifier string          `json:"identifier,omitempty"`
	Path       *string         `json:"path,omitempty"`
	Parent     string          `json:"parent,omitempty"`
	ParentPath string          `json:"parentPath,omitempty"`
	ModelType  string          `json:"modelType,omitempty"`
	Tag        string          `json:"tag,omitempty"`
	Row        *int            `json:"row,omitempty"`
	Role       int             `json:"role,omitempty"`
	Variant    json.RawMessage `json:"variant,omitempty"`
}

func (r *request) row() int {
	if r.Row == nil {
		return -1
	}
	return *r.Row
}

// MaxFrameSize bounds the payload of one incoming frame.
const MaxFrameSize = 16 << 20

func writeFrame(w io.Writer, buf []byte) error {
	_, err := fmt.Fprintf(w, "%d %s\n", len(buf), buf)
	return err
}

// readFrame reads one "<size> <json>\n" frame.
func readFrame(rd *bufio.Reader) ([]byte, error) {
	sizeStr, err := rd.ReadString(' ')
	if err != nil {
		return nil, err
	} else if len(sizeStr) < 2 {
		return nil, fmt.Errorf("invalid message: invalid size")
	}

	byteCnt, _ := strconv.ParseInt(sizeStr[:len(sizeStr)-1], 10, 32)
	if byteCnt < 1 {
		return nil, fmt.Errorf("invalid message: size too short")
	} else if byteCnt > MaxFrameSize {
		return nil, fmt.Errorf("invalid message: size %d exceeds %d", byteCnt, MaxFrameSize)
	}

	blob := make([]byte, byteCnt)
	if _, err := io.ReadFull(rd, blob); err != nil {
		return nil, err
	}

	// Read the final newline
	if nl, err := rd.ReadByte(); err != nil {
		return nil, err
	} else if nl != '\n' {
		return nil, fmt.Errorf("invalid message: expected terminating newline, read %c", nl)
	}
	return blob, nil
}
