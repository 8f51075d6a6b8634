// Package app wires the boot pipeline and runs the control loop.
//
// Boot selects the variant, loads its manifest, builds the hardware
// collections and filters the components. Run then drives the active
// components at a fixed tick until its context ends.
package app

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Raptacon/Robot-2020/components"
	"github.com/Raptacon/Robot-2020/config"
	"github.com/Raptacon/Robot-2020/core/build"
	"github.com/Raptacon/Robot-2020/core/component"
	"github.com/Raptacon/Robot-2020/core/factory"
	"github.com/Raptacon/Robot-2020/core/hardware"
	"github.com/Raptacon/Robot-2020/core/input"
	"github.com/Raptacon/Robot-2020/core/manifest"
	coremetrics "github.com/Raptacon/Robot-2020/core/metrics"
	"github.com/Raptacon/Robot-2020/core/variant"
	"github.com/Raptacon/Robot-2020/infra/logger"
	"github.com/Raptacon/Robot-2020/infra/metrics"
	"github.com/Raptacon/Robot-2020/infra/mqtt"
	"github.com/Raptacon/Robot-2020/internal/eventbus"
)

// Options replace the collaborators Boot would otherwise create.
type Options struct {
	// Variant overrides the marker file.
	Variant string
	// Source returns the axis source of a controller port.
	Source func(channel int) input.AxisSource
	// Types are registered next to the built-in hardware types.
	Types []factory.Registration[hardware.Object]
	// Declarations returns the components to filter. Defaults to
	// components.Declarations.
	Declarations func() []component.Declaration
	// Sink replaces the sinks configured under metrics.sinks.
	Sink coremetrics.Sink
	// Publisher replaces the MQTT client built from the mqtt section.
	Publisher mqtt.BootPublisher
	Log       logger.Logger
}

// Boot runs the boot pipeline. Any failure is returned before a single
// component runs; collections built so far are released.
func Boot(cfg *config.Config, opts Options) (*Robot, error) {
	start := time.Now()
	log := opts.Log
	if log == nil {
		log = logger.New("robot")
	}

	loader := manifest.NewLoader(cfg.Robot.ConfigDir, log)
	v, m, err := selectManifest(cfg, loader, opts.Variant, log)
	if err != nil {
		return nil, err
	}

	cols, err := buildCollections(cfg, m, opts, log)
	if err != nil {
		return nil, fmt.Errorf("variant %s: %w", v, err)
	}
	res, err := filterComponents(cfg, v, cols, opts, log)
	if err != nil {
		cols.Close()
		return nil, fmt.Errorf("variant %s: %w", v, err)
	}

	r := &Robot{
		Variant:     v,
		Collections: cols,
		Components:  res,
		tick:        cfg.Robot.Tick(),
		listen:      cfg.Metrics.Listen,
		bus:         eventbus.NewTyped[coremetrics.BootReport](),
		log:         log,
	}
	if err := r.attachSinks(cfg, opts); err != nil {
		cols.Close()
		return nil, err
	}

	r.Report = coremetrics.BootReport{
		BootID:      uuid.NewString(),
		Variant:     v,
		Collections: make(map[string]int, len(cols)),
		Active:      res.Active(),
		Disabled:    res.Disabled(),
		Time:        start,
	}
	for key, c := range cols {
		r.Report.Collections[key] = len(c)
	}
	r.Report.Duration = time.Since(start)
	log.Infof("Boot %s of %s done in %s: %d item(s), %d active component(s)",
		r.Report.BootID, v, r.Report.Duration, r.Report.Items(), len(r.Report.Active))
	return r, nil
}

// SelectVariant returns the variant the robot would boot, using the index
// to validate marker content.
func SelectVariant(cfg *config.Config, override string, log logger.Logger) (string, error) {
	if log == nil {
		log = logger.New("robot")
	}
	index, err := manifest.NewLoader(cfg.Robot.ConfigDir, log).Load(cfg.Robot.Index)
	if err != nil {
		return "", fmt.Errorf("load index: %w", err)
	}
	return newSelector(cfg, index, override, log).Select(index.Variants()...), nil
}

func newSelector(cfg *config.Config, index *manifest.Manifest, override string, log logger.Logger) *variant.Selector {
	fallback := cfg.Robot.DefaultVariant
	if index.Default != "" {
		fallback = index.Default
	}
	sel := variant.NewSelector(cfg.Robot.Marker, fallback, log)
	sel.Override = override
	return sel
}

func selectManifest(cfg *config.Config, loader *manifest.Loader, override string, log logger.Logger) (string, *manifest.Manifest, error) {
	index, err := loader.Load(cfg.Robot.Index)
	if err != nil {
		return "", nil, fmt.Errorf("load index: %w", err)
	}
	v := newSelector(cfg, index, override, log).Select(index.Variants()...)
	m, err := loadVariant(loader, index, v, log)
	if err != nil {
		return "", nil, fmt.Errorf("variant %s: %w", v, err)
	}
	return v, m, nil
}

func loadVariant(loader *manifest.Loader, index *manifest.Manifest, v string, log logger.Logger) (*manifest.Manifest, error) {
	doc, ok := index.VariantDocument(v)
	if !ok {
		return nil, fmt.Errorf("variant %q is not listed in %s", v, index.File)
	}
	m, err := loader.Load(doc)
	if err != nil {
		return nil, err
	}
	if len(m.Compatibility) > 0 && !component.Compatibility(m.Compatibility).Allows(v) {
		log.Warnf("Manifest %s declares compatibility %v, not %s", doc, m.Compatibility, v)
	}
	return m, nil
}

func buildCollections(cfg *config.Config, m *manifest.Manifest, opts Options, log logger.Logger) (build.Collections, error) {
	reg, err := hardware.NewRegistry(hardware.Options{
		SampleInterval: cfg.Robot.InputInterval(),
		Source:         opts.Source,
	})
	if err != nil {
		return nil, err
	}
	for _, t := range opts.Types {
		if err := reg.Register(t); err != nil {
			return nil, err
		}
	}
	return build.New(reg, log).Build(m)
}

func filterComponents(cfg *config.Config, v string, cols build.Collections, opts Options, log logger.Logger) (*component.Result, error) {
	policy, err := cfg.Components.Policy()
	if err != nil {
		return nil, err
	}
	decls := components.Declarations
	if opts.Declarations != nil {
		decls = opts.Declarations
	}
	return component.NewFilter(policy, log).Apply(v, decls(), cols)
}

func (r *Robot) attachSinks(cfg *config.Config, opts Options) error {
	r.sink = opts.Sink
	if r.sink == nil {
		promReg := prometheus.NewRegistry()
		promReg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		reg, err := metrics.NewSinkRegistry(promReg)
		if err != nil {
			return err
		}
		if r.sink, err = coremetrics.NewSink(reg, cfg.Metrics.Sinks); err != nil {
			return fmt.Errorf("metrics sinks: %w", err)
		}
		r.gatherer = promReg
	}

	r.pub = opts.Publisher
	if r.pub == nil && cfg.MQTT.Enabled() {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("mqtt client: %w", err)
		}
		r.pub = client
	}
	return nil
}
