package replay

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lab1702/minigames-server/internal/apperrors"
	"github.com/lab1702/minigames-server/internal/replay/wire"
)

// Filename builds the canonical replay filename (spec.md 4.3):
// YYYYMMDDhhmmss_<GAME>_<version_with_underscores>.minigamesreplay
func Filename(start time.Time, game GameType) string {
	version := strings.ReplaceAll(EngineVersion, ".", "_")
	return fmt.Sprintf("%s_%s_%s.minigamesreplay", start.UTC().Format("20060102150405"), game, version)
}

// Save writes r to dir using the canonical filename and returns the full path.
func Save(dir string, start time.Time, r Replay) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.Wrap(apperrors.IoFailure, err, "creating replay directory %s", dir)
	}
	path := filepath.Join(dir, Filename(start, r.Header.Game))
	data := append([]byte{FormatVersion}, wire.Marshal(r)...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperrors.Wrap(apperrors.IoFailure, err, "writing replay file %s", path)
	}
	return path, nil
}

// Load reads and decodes a replay file, mapping failures onto the typed
// error kinds named in spec.md 4.3: EmptyFile, UnsupportedVersion, Decode,
// Io.
func Load(path string) (Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Replay{}, apperrors.Wrap(apperrors.IoFailure, err, "reading replay file %s", path)
	}
	if len(data) == 0 {
		return Replay{}, apperrors.New(apperrors.ReplayCorrupt, "replay file %s is empty", path)
	}
	if data[0] != FormatVersion {
		return Replay{}, apperrors.New(apperrors.ReplayUnsupportedVersion, "replay file %s has version %d, expected %d", path, data[0], FormatVersion)
	}
	r, err := wire.Unmarshal(data[1:])
	if err != nil {
		return Replay{}, apperrors.Wrap(apperrors.ReplayCorrupt, err, "decoding replay file %s", path)
	}
	return r, nil
}
