package manifest

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/internal/version"
	"github.com/teranos/patternkit/logger"
	"github.com/teranos/patternkit/model"
)

// maxParallel bounds concurrent manifest reads
const maxParallel = 8

// Load reads and decodes every path concurrently and merges them into one
// unit in argument order. The unit is named after the first manifest that
// names it, else after the first file.
//
// Declarations without a location are attributed to their file so
// diagnostics point somewhere useful.
func Load(ctx context.Context, log *zap.SugaredLogger, paths ...string) (model.RawUnit, error) {
	log = logger.OrNop(log)
	if len(paths) == 0 {
		return model.RawUnit{}, errors.WithHint(
			errors.Wrap(errors.ErrInvalidManifest, "no manifest given"),
			"pass one or more .yaml, .toml or .json files")
	}

	units := make([]model.RawUnit, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			u, err := LoadFile(path)
			if err != nil {
				return err
			}
			units[i] = u
			log.Debugw("manifest decoded",
				logger.FieldPath, path,
				logger.FieldDeclaration, len(u.Declarations))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.RawUnit{}, err
	}

	merged := model.RawUnit{}
	for i, u := range units {
		if merged.Name == "" && u.Name != "" {
			merged.Name = u.Name
		}
		if merged.Requires == "" {
			merged.Requires = u.Requires
		}
		attribute(u.Declarations, paths[i])
		merged.Declarations = append(merged.Declarations, u.Declarations...)
	}
	if merged.Name == "" {
		base := filepath.Base(paths[0])
		merged.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return merged, nil
}

// LoadFile reads one manifest and checks its version constraint
func LoadFile(path string) (model.RawUnit, error) {
	f, err := FormatOf(path)
	if err != nil {
		return model.RawUnit{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.RawUnit{}, errors.Wrapf(err, "read manifest %s", path)
	}
	u, err := Decode(data, f)
	if err != nil {
		return model.RawUnit{}, errors.Wrapf(err, "decode %s", path)
	}
	if err := CheckRequires(u); err != nil {
		return model.RawUnit{}, errors.Wrapf(err, "%s", path)
	}
	return u, nil
}

// CheckRequires verifies the manifest's requires constraint against the tool version
func CheckRequires(u model.RawUnit) error {
	ok, err := version.Satisfies(u.Requires)
	if err != nil {
		return errors.Wrap(errors.ErrUnsupportedSchema, err.Error())
	}
	if !ok {
		return errors.WithHintf(
			errors.Wrapf(errors.ErrUnsupportedSchema, "manifest requires pkgen %s, this is %s", u.Requires, version.Version),
			"upgrade pkgen or relax the requires constraint")
	}
	return nil
}

func attribute(decls []model.RawDeclaration, path string) {
	for i := range decls {
		if decls[i].Location.File == "" {
			decls[i].Location.File = path
		}
	}
}
