// Package proto defines the wire format exchanged between a send peer and
// a receive peer once a direct (or relayed) libp2p stream is open: a batch
// request of tagged items, and an aggregate response.
package proto

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Onboardbase/secure-share/internal/item"
)

// ProtocolID is the libp2p protocol this package's request/response
// exchange runs over.
const ProtocolID = "/share-json-protocol"

// wireItem is the on-the-wire discriminated-union shape for an Item,
// matching the historical CLI's JSON layout exactly: exactly one of
// message/secret/file is non-nil, selected by item_type.
type wireItem struct {
	ItemType string       `json:"item_type"`
	Message  *wireMessage `json:"message"`
	Secret   *wireSecret  `json:"secret"`
	File     *wireFile    `json:"file"`
}

type wireMessage struct {
	Msg string `json:"msg"`
}

type wireSecret struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type wireFile struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Data      []byte `json:"data"`
	Extension string `json:"extension"`
}

// ToWire converts a domain Batch into its wire representation. The
// original basename is reused for both name and path since this side of
// the protocol never needs the sender's local filesystem layout.
func ToWire(items []item.Item) ([]byte, error) {
	wire := make([]wireItem, 0, len(items))
	for _, it := range items {
		w, err := toWireItem(it)
		if err != nil {
			return nil, err
		}
		wire = append(wire, w)
	}
	return json.Marshal(wire)
}

func toWireItem(it item.Item) (wireItem, error) {
	switch v := it.(type) {
	case item.Secret:
		return wireItem{ItemType: "Secret", Secret: &wireSecret{Key: v.Key, Value: v.Value}}, nil
	case item.Message:
		return wireItem{ItemType: "Message", Message: &wireMessage{Msg: v.Text}}, nil
	case item.File:
		return wireItem{ItemType: "File", File: &wireFile{
			Name:      v.Name,
			Path:      v.Name,
			Data:      v.Data,
			Extension: v.Extension,
		}}, nil
	default:
		return wireItem{}, fmt.Errorf("proto: unknown item type %T", it)
	}
}

// FromWire decodes a JSON batch frame back into domain Items. Individual
// malformed entries are reported via the returned error slice (one entry
// per bad item, nil for a good one) so the caller can count them as
// per-item protocol failures rather than rejecting the whole batch.
func FromWire(data []byte) ([]item.Item, []error, error) {
	var wire []wireItem
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, nil, fmt.Errorf("proto: decode batch: %w", err)
	}
	items := make([]item.Item, len(wire))
	errs := make([]error, len(wire))
	for i, w := range wire {
		it, err := fromWireItem(w)
		items[i] = it
		errs[i] = err
	}
	return items, errs, nil
}

func fromWireItem(w wireItem) (item.Item, error) {
	switch w.ItemType {
	case "Secret":
		if w.Secret == nil {
			return nil, fmt.Errorf("proto: item_type Secret missing secret field")
		}
		return item.Secret{Key: w.Secret.Key, Value: w.Secret.Value}, nil
	case "Message":
		if w.Message == nil {
			return nil, fmt.Errorf("proto: item_type Message missing message field")
		}
		return item.Message{Text: w.Message.Msg}, nil
	case "File":
		if w.File == nil {
			return nil, fmt.Errorf("proto: item_type File missing file field")
		}
		return item.File{Name: w.File.Name, Extension: w.File.Extension, Data: w.File.Data}, nil
	default:
		return nil, fmt.Errorf("proto: unrecognized item_type %q", w.ItemType)
	}
}

// maxFrameSize bounds a single frame so a misbehaving peer can't make us
// allocate unboundedly from a bogus length prefix.
const maxFrameSize = 256 << 20 // 256MiB, generous for a batch of files

// WriteFrame writes v as a 4-byte big-endian length prefix followed by its
// JSON encoding. Framing is needed because JSON values don't self-delimit
// over a continuous stream the way the historical CLI's length-delimited
// codec (serde_json + tokio's LengthDelimitedCodec) did.
func WriteFrame(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("proto: encode frame: %w", err)
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("proto: write frame length: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("proto: write frame body: %w", err)
	}
	return nil
}

// WriteRawFrame writes body (already-encoded JSON) behind a length prefix,
// without re-marshaling it. Used for the batch request, which ToWire has
// already encoded as a JSON array.
func WriteRawFrame(w io.Writer, body []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("proto: write frame length: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("proto: write frame body: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame and returns its raw JSON body.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("proto: read frame length: %w", err)
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrameSize {
		return nil, fmt.Errorf("proto: frame of %d bytes exceeds limit %d", n, maxFrameSize)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("proto: read frame body: %w", err)
	}
	return body, nil
}
