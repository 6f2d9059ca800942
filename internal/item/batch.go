package item

import "github.com/Onboardbase/secure-share/internal/config"

// Status mirrors the exact (misspelled) wire value the original CLI sends
// on success. Preserved verbatim since it is part of the wire contract
// between independently versioned peers.
type Status string

const (
	StatusSuccess Status = "Succes"
	StatusFailed  Status = "Failed"
)

// Response reports how many items a batch save succeeded or failed.
type Response struct {
	Status      Status `json:"status"`
	NoOfSuccess int    `json:"no_of_success"`
	NoOfFails   int    `json:"no_of_fails"`
	Err         string `json:"err,omitempty"`
}

// Build assembles the ordered batch of items to send from a config: secrets
// first, then messages, then files — an exact ordering invariant carried
// over from the original CLI's get_items_to_be_sent.
func Build(cfg *config.Config) ([]Item, error) {
	var items []Item
	for _, s := range cfg.Secret {
		items = append(items, Secret{Key: s.Key, Value: s.Value})
	}
	for _, m := range cfg.Message {
		items = append(items, Message{Text: m})
	}
	for _, path := range cfg.File {
		f, err := NewFile(path)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, nil
}

// SaveAll saves each item under dir in order, counting successes and
// failures rather than aborting on the first error — a partial batch
// failure still reports how much of it landed. Status is always Succes:
// Failed is reserved for whole-request rejection, which this engine never
// does — per-item failures are conveyed only through the fail count.
func SaveAll(items []Item, dir string) Response {
	resp := Response{Status: StatusSuccess}
	for _, it := range items {
		if err := it.Save(dir); err != nil {
			resp.NoOfFails++
			if resp.Err == "" {
				resp.Err = err.Error()
			}
			continue
		}
		resp.NoOfSuccess++
	}
	return resp
}
