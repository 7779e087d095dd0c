package services

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
)

// Feature flag keys persisted to the env file.
const (
	FlagResumeDownload = "RESUME_DOWNLOAD_ENABLED"
)

var knownFlags = []string{FlagResumeDownload}

// FeatureService defines the interface for runtime feature flags. Flags are
// persisted to an env file so the next build picks them up; toggling also
// fires the configured rebuild command without waiting for it.
type FeatureService interface {
	Flags(ctx context.Context) (map[string]bool, error)
	SetFlag(ctx context.Context, name string, enabled bool) error
}

// featureService implements FeatureService.
type featureService struct {
	envFile        string
	rebuildCommand string
	logger         *zap.Logger
	// run launches the rebuild command. Swappable in tests.
	run func(name string, args ...string)
}

// NewFeatureService creates a new feature service.
func NewFeatureService(envFile, rebuildCommand string, logger *zap.Logger) FeatureService {
	s := &featureService{envFile: envFile, rebuildCommand: rebuildCommand, logger: logger}
	s.run = s.startCommand
	return s
}

// Flags reads the current flag values. A missing env file means all flags
// report their defaults.
func (s *featureService) Flags(ctx context.Context) (map[string]bool, error) {
	values := map[string]bool{}
	env, err := godotenv.Read(s.envFile)
	if err != nil {
		if os.IsNotExist(err) {
			env = map[string]string{}
		} else {
			return nil, err
		}
	}

	for _, flag := range knownFlags {
		enabled, _ := strconv.ParseBool(env[flag])
		values[flag] = enabled
	}
	return values, nil
}

// SetFlag persists a flag and fires the rebuild command. The write is
// synchronous; the rebuild is not.
func (s *featureService) SetFlag(ctx context.Context, name string, enabled bool) error {
	if !isKnownFlag(name) {
		return apperrors.NewValidation("flag", "unknown feature flag")
	}

	env, err := godotenv.Read(s.envFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		env = map[string]string{}
	}
	env[name] = strconv.FormatBool(enabled)

	if err := godotenv.Write(env, s.envFile); err != nil {
		return err
	}

	if s.rebuildCommand != "" {
		parts := strings.Fields(s.rebuildCommand)
		s.run(parts[0], parts[1:]...)
	}
	return nil
}

func (s *featureService) startCommand(name string, args ...string) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		s.logger.Warn("rebuild command failed to start", zap.String("command", name), zap.Error(err))
		return
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			s.logger.Warn("rebuild command exited with error", zap.String("command", name), zap.Error(err))
		}
	}()
}

func isKnownFlag(name string) bool {
	for _, f := range knownFlags {
		if f == name {
			return true
		}
	}
	return false
}

// Ensure featureService implements FeatureService at compile time.
var _ FeatureService = (*featureService)(nil)
