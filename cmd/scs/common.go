package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/Onboardbase/secure-share/internal/config"
	"github.com/Onboardbase/secure-share/internal/directory"
	"github.com/Onboardbase/secure-share/internal/identity"
	"github.com/Onboardbase/secure-share/internal/logging"
	"github.com/Onboardbase/secure-share/internal/security"
	"github.com/libp2p/go-libp2p/core/crypto"
)

// sharedFlags is the subset of the CLI surface common to send and
// receive: port, debug verbosity, an optional config file, and the three
// repeatable item flags.
type sharedFlags struct {
	port    int
	debug   countFlag
	config  string
	secrets stringList
	message stringList
	files   stringList
}

// resolveConfig merges a YAML config file (if given) with CLI flags. CLI
// flags extend rather than replace the config file's items, added in
// secrets-then-messages-then-files order, and take precedence over the
// config file for scalar fields.
func resolveConfig(f sharedFlags) (*config.Config, error) {
	var cfg *config.Config
	if f.config != "" {
		loaded, err := config.Load(f.config)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", f.config, err)
		}
		cfg = loaded
	} else {
		cfg = &config.Config{}
	}

	if f.port != 0 {
		cfg.Port = f.port
	}
	if int(f.debug) > 0 {
		cfg.Debug = int(f.debug)
	}
	if cfg.SavePath == "" {
		cfg.SavePath = "default"
	}
	if err := config.ResolveSavePath(cfg); err != nil {
		return nil, err
	}

	for _, s := range f.secrets {
		parsed, err := parseSecretFlag(s)
		if err != nil {
			return nil, err
		}
		cfg.Secret = append(cfg.Secret, parsed)
	}
	cfg.Message = append(cfg.Message, f.message...)
	cfg.File = append(cfg.File, f.files...)

	return cfg, nil
}

func parseSecretFlag(s string) (config.Secret, error) {
	key, value, err := splitSecret(s)
	if err != nil {
		return config.Secret{}, err
	}
	return config.Secret{Key: key, Value: value}, nil
}

// splitSecret parses a "-s key,value" flag value, requiring exactly one
// comma (mirrors internal/item.SecretFromString's rule for the same
// format, kept separate here since the config-level Secret has no Save
// method of its own).
func splitSecret(s string) (key, value string, err error) {
	idx := -1
	count := 0
	for i, r := range s {
		if r == ',' {
			count++
			if idx == -1 {
				idx = i
			}
		}
	}
	if count != 1 {
		return "", "", fmt.Errorf("secret %q: expected exactly one comma (\"key,value\")", s)
	}
	return s[:idx], s[idx+1:], nil
}

// localDataDir returns the per-user local-data directory scs.db3 and
// logs/ are rooted under, the Go stdlib equivalent of the original's
// directories_next::ProjectDirs.
func localDataDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve local data dir: %w", err)
	}
	return filepath.Join(dir, "onboardbase", "secure-share"), nil
}

// bootstrap wires up the collaborators every send/receive run needs:
// rotated logging, the derived identity, the security gate, and the peer
// directory.
type bootstrapped struct {
	Priv      crypto.PrivKey
	Logger    *slog.Logger
	Gate      *security.Gate
	Directory *directory.Store
}

func bootstrap(cfg *config.Config) (*bootstrapped, error) {
	dataDir, err := localDataDir()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{Dir: filepath.Join(dataDir, "logs"), Debug: cfg.Debug})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	// Tag every record with a per-run id so interleaved runs writing to the
	// same hourly log file stay distinguishable.
	logger = logger.With("run", uuid.NewString())
	slog.SetDefault(logger)

	seed := cfg.Seed
	var seedBytes []byte
	if seed != "" {
		seedBytes = identity.PadSeed(seed)
	} else {
		// A user-supplied seed is authoritative when present; fall back
		// to fresh randomness otherwise.
		seedBytes, err = identity.RandomSeed()
		if err != nil {
			return nil, err
		}
	}
	priv, err := identity.FromSeed(seedBytes)
	if err != nil {
		return nil, fmt.Errorf("derive identity: %w", err)
	}
	peerID, err := identity.PeerID(priv)
	if err != nil {
		return nil, err
	}
	logger.Info("derived peer identity", "peer_id", peerID.String())

	gate := security.New(cfg.Whitelists, cfg.Blacklists)

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("create local data dir: %w", err)
	}
	store, err := directory.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open peer directory: %w", err)
	}

	return &bootstrapped{Priv: priv, Logger: logger, Gate: gate, Directory: store}, nil
}
