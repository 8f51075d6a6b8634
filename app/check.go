package app

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/Raptacon/Robot-2020/config"
	"github.com/Raptacon/Robot-2020/core/manifest"
	"github.com/Raptacon/Robot-2020/infra/logger"
)

// CheckResult is the outcome of checking one variant.
type CheckResult struct {
	Variant  string
	Items    int
	Active   []string
	Disabled []string
	Err      error
}

// Check runs the boot pipeline for every variant in the index without
// starting anything. It returns one result per variant and every failure
// combined.
func Check(cfg *config.Config, opts Options) ([]CheckResult, error) {
	log := opts.Log
	if log == nil {
		log = logger.New("check")
	}
	loader := manifest.NewLoader(cfg.Robot.ConfigDir, log)
	index, err := loader.Load(cfg.Robot.Index)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}

	var errs *multierror.Error
	results := make([]CheckResult, 0, len(index.Variants()))
	for _, v := range index.Variants() {
		res := checkVariant(cfg, loader, index, v, opts, log)
		if res.Err != nil {
			errs = multierror.Append(errs, fmt.Errorf("variant %s: %w", v, res.Err))
		}
		results = append(results, res)
	}
	return results, errs.ErrorOrNil()
}

func checkVariant(cfg *config.Config, loader *manifest.Loader, index *manifest.Manifest, v string, opts Options, log logger.Logger) CheckResult {
	res := CheckResult{Variant: v}
	m, err := loadVariant(loader, index, v, log)
	if err != nil {
		res.Err = err
		return res
	}
	cols, err := buildCollections(cfg, m, opts, log)
	if err != nil {
		res.Err = err
		return res
	}
	defer cols.Close()
	res.Items = cols.Count()

	filtered, err := filterComponents(cfg, v, cols, opts, log)
	if err != nil {
		res.Err = err
		return res
	}
	res.Active = filtered.Active()
	res.Disabled = filtered.Disabled()
	return res
}
