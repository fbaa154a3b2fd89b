package audio

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"meditimer/internal/core/model"

	"github.com/gen2brain/beeep"
)

// ErrNoPlayer indicates no system audio player was found.
var ErrNoPlayer = errors.New("no audio player available")

// ErrUnsupportedURI is returned for sound URIs that are not local files.
var ErrUnsupportedURI = errors.New("unsupported sound uri")

const beepMillis = 700

// Config contains playback options.
type Config struct {
	// CacheDir receives the synthesized built-in gongs.
	CacheDir string
	// AlarmVolume plays at full volume where the player supports it.
	AlarmVolume bool
}

type process interface {
	Kill() error
	Wait() error
}

type command struct {
	name string
	args func(path string, loud bool) []string
}

var commands = []command{
	{name: "paplay", args: func(path string, loud bool) []string {
		if loud {
			return []string{"--volume=65536", path}
		}
		return []string{path}
	}},
	{name: "afplay", args: func(path string, loud bool) []string {
		if loud {
			return []string{"-v", "1", path}
		}
		return []string{path}
	}},
	{name: "aplay", args: func(path string, _ bool) []string {
		return []string{"-q", path}
	}},
	{name: "ffplay", args: func(path string, loud bool) []string {
		args := []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}
		if loud {
			args = append(args, "-volume", "100")
		}
		return append(args, path)
	}},
	{name: "powershell", args: func(path string, _ bool) []string {
		quoted := strings.ReplaceAll(path, "'", "''")
		return []string{"-NoProfile", "-Command", "(New-Object Media.SoundPlayer '" + quoted + "').PlaySync()"}
	}},
}

// Player plays one sound at a time through a system audio player.
type Player struct {
	mu      sync.Mutex
	config  Config
	current process

	lookPath func(string) (string, error)
	start    func(name string, args ...string) (process, error)
	beep     func(freq float64, millis int) error
}

// New creates a Player. An empty CacheDir resolves to the user cache dir.
func New(config Config) *Player {
	if config.CacheDir == "" {
		if cacheDir, err := os.UserCacheDir(); err == nil {
			config.CacheDir = filepath.Join(cacheDir, "Meditimer", "sounds")
		} else {
			config.CacheDir = filepath.Join(os.TempDir(), "meditimer-sounds")
		}
	}
	return &Player{
		config:   config,
		lookPath: exec.LookPath,
		start:    startProcess,
		beep:     beeep.Beep,
	}
}

// SetAlarmVolume toggles full volume playback.
func (player *Player) SetAlarmVolume(enabled bool) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.config.AlarmVolume = enabled
}

// PlayBuiltin plays a built-in gong. GongNone does nothing.
func (player *Player) PlayBuiltin(gong model.Gong) error {
	if gong.IsNone() {
		return nil
	}
	path, err := ensureGongFile(player.config.CacheDir, gong)
	if err != nil {
		return player.fallbackBeep(gong, err)
	}
	if err := player.playFile(path); err != nil {
		return player.fallbackBeep(gong, err)
	}
	return nil
}

// PlayURI plays a user supplied sound file given as file URL or path.
func (player *Player) PlayURI(uri string) error {
	path, err := localPath(uri)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("open sound: %w", err)
	}
	return player.playFile(path)
}

// Stop silences the current sound.
func (player *Player) Stop() {
	player.mu.Lock()
	current := player.current
	player.current = nil
	player.mu.Unlock()

	if current != nil {
		_ = current.Kill()
	}
}

func (player *Player) playFile(path string) error {
	name, args, err := player.resolve(path)
	if err != nil {
		return err
	}

	player.Stop()
	proc, err := player.start(name, args...)
	if err != nil {
		return fmt.Errorf("start %s: %w", filepath.Base(name), err)
	}

	player.mu.Lock()
	player.current = proc
	player.mu.Unlock()

	go func() {
		_ = proc.Wait()
		player.mu.Lock()
		if player.current == proc {
			player.current = nil
		}
		player.mu.Unlock()
	}()
	return nil
}

func (player *Player) resolve(path string) (string, []string, error) {
	player.mu.Lock()
	loud := player.config.AlarmVolume
	player.mu.Unlock()

	for _, candidate := range commands {
		if candidate.name == "powershell" && runtime.GOOS != "windows" {
			continue
		}
		resolved, err := player.lookPath(candidate.name)
		if err != nil {
			continue
		}
		return resolved, candidate.args(path, loud), nil
	}
	return "", nil, ErrNoPlayer
}

func (player *Player) fallbackBeep(gong model.Gong, cause error) error {
	if err := player.beep(beepFrequency(gong), beepMillis); err != nil {
		return fmt.Errorf("play gong %d: %w", gong.ID(), errors.Join(cause, err))
	}
	return nil
}

func localPath(uri string) (string, error) {
	if uri == "" {
		return "", fmt.Errorf("%w: empty", ErrUnsupportedURI)
	}
	if !strings.Contains(uri, "://") {
		return uri, nil
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse sound uri: %w", err)
	}
	if parsed.Scheme != "file" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedURI, parsed.Scheme)
	}
	return filepath.FromSlash(parsed.Path), nil
}

func startProcess(name string, args ...string) (process, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return execProcess{cmd: cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (proc execProcess) Kill() error {
	return proc.cmd.Process.Kill()
}

func (proc execProcess) Wait() error {
	return proc.cmd.Wait()
}
