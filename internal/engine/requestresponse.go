package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"

	"github.com/Onboardbase/secure-share/internal/item"
	"github.com/Onboardbase/secure-share/internal/proto"
)

// SendBatch opens a stream to remote on proto.ProtocolID, writes the batch
// as a single length-prefixed frame and reads back the aggregate response.
// This stands in for rust-libp2p's request_response::json::Behaviour.
func SendBatch(ctx context.Context, h host.Host, remote peer.ID, items []item.Item) (item.Response, error) {
	s, err := h.NewStream(ctx, remote, protocol.ID(proto.ProtocolID))
	if err != nil {
		return item.Response{}, fmt.Errorf("engine: open request/response stream: %w", err)
	}
	defer s.Close()

	body, err := proto.ToWire(items)
	if err != nil {
		s.Reset()
		return item.Response{}, fmt.Errorf("engine: encode batch: %w", err)
	}
	if err := proto.WriteRawFrame(s, body); err != nil {
		s.Reset()
		return item.Response{}, fmt.Errorf("engine: send batch: %w", err)
	}
	if err := s.CloseWrite(); err != nil {
		slog.Debug("engine: close-write after batch send", "error", err)
	}

	respBody, err := proto.ReadFrame(s)
	if err != nil {
		s.Reset()
		return item.Response{}, fmt.Errorf("engine: read response: %w", err)
	}
	var resp item.Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return item.Response{}, fmt.Errorf("engine: decode response: %w", err)
	}
	return resp, nil
}

// RegisterReceiver installs the stream handler a receive-role session uses
// to accept exactly one batch: read the frame, save every item in order,
// and write back the aggregate response. onBatch is called synchronously
// with the decoded items and must return the Response to send; it's the
// session's hook into item.SaveAll plus its own peer-directory/logging
// side effects.
func RegisterReceiver(h host.Host, onBatch func(peer.ID, []item.Item) item.Response) {
	h.SetStreamHandler(protocol.ID(proto.ProtocolID), func(s network.Stream) {
		defer s.Close()
		remote := s.Conn().RemotePeer()

		body, err := proto.ReadFrame(s)
		if err != nil {
			slog.Error("engine: read incoming batch", "peer", remote, "error", err)
			s.Reset()
			return
		}

		wireItems, itemErrs, err := proto.FromWire(body)
		if err != nil {
			slog.Error("engine: decode batch items", "peer", remote, "error", err)
			s.Reset()
			return
		}
		// Malformed entries decode to a nil Item; keep them out of onBatch
		// (which will call Save on each) and count them as failures
		// directly. A bad item counts as one failure; the rest of the batch
		// is still saved and the connection stays open.
		var preFailures int
		items := make([]item.Item, 0, len(wireItems))
		for i, e := range itemErrs {
			if e != nil {
				slog.Warn("engine: malformed item in batch, counting as failure", "peer", remote, "index", i, "error", e)
				preFailures++
				continue
			}
			items = append(items, wireItems[i])
		}

		resp := onBatch(remote, items)
		resp.NoOfFails += preFailures
		if err := proto.WriteFrame(s, resp); err != nil {
			slog.Error("engine: write batch response", "peer", remote, "error", err)
			s.Reset()
			return
		}
	})
}
