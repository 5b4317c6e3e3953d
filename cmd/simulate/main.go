package main

import (
	"flag"
	"log"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/milk9111/tension/configs"
	"github.com/milk9111/tension/director"
	"github.com/milk9111/tension/scenario"
	"github.com/milk9111/tension/telemetry"
)

// options are the env-var defaults; flags override them.
type options struct {
	Spec     string  `env:"TENSION_SPEC" envDefault:"session.yaml"`
	Scenario string  `env:"TENSION_SCENARIO" envDefault:"onslaught.tengo"`
	Seconds  float64 `env:"TENSION_SECONDS" envDefault:"180"`
	Seed     int64   `env:"TENSION_SEED" envDefault:"-1"`
	DB       string  `env:"TENSION_DB"`
	Watch    bool    `env:"TENSION_WATCH"`
}

func main() {
	var opts options
	if err := env.Parse(&opts); err != nil {
		log.Fatal(err)
	}

	specName := flag.String("spec", opts.Spec, "session spec in configs/ (yaml)")
	scenarioName := flag.String("scenario", opts.Scenario, "scenario script in configs/scenarios/ (tengo)")
	seconds := flag.Float64("seconds", opts.Seconds, "simulated seconds to run")
	seed := flag.Int64("seed", opts.Seed, "master seed override (-1 uses the spec's seed)")
	dbPath := flag.String("db", opts.DB, "sqlite telemetry database (empty disables)")
	watch := flag.Bool("watch", opts.Watch, "hot-reload tuning from configs/ while running")
	flag.Parse()

	spec, err := configs.LoadSessionSpec(*specName)
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := spec.Config()
	if err != nil {
		log.Fatal(err)
	}
	if *seed >= 0 {
		cfg.MasterSeed = *seed
	}

	rt, err := scenario.Load(*scenarioName)
	if err != nil {
		log.Fatal(err)
	}

	d, err := director.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	for _, id := range rt.Participants() {
		d.Join(id)
	}

	sinks := telemetry.Multi{telemetry.NewLogSink(os.Stdout)}
	if *dbPath != "" {
		db, err := telemetry.OpenSQLite(*dbPath)
		if err != nil {
			log.Fatal(err)
		}
		sinks = append(sinks, db)
	}
	defer func() {
		if err := sinks.Close(); err != nil {
			log.Printf("simulate: close sinks: %v", err)
		}
	}()

	if *watch {
		watcher, err := configs.NewWatcher("configs")
		if err != nil {
			log.Fatal(err)
		}
		defer watcher.Close()
		go reloadOnChange(watcher, *specName, d)
	}

	ticks := int(*seconds * cfg.TickRate)
	for tick := 0; tick < ticks; tick++ {
		session := d.Session()
		events, err := rt.Events(tick, session.TeamSignal)
		if err != nil {
			log.Fatal(err)
		}
		for _, ev := range events {
			ev.Timestamp = session.Now
			if err := d.Record(ev); err != nil {
				log.Printf("simulate: drop event: %v", err)
			}
		}

		d.Step()

		for _, evt := range d.Drain() {
			if err := sinks.Record(evt); err != nil {
				log.Printf("simulate: record: %v", err)
			}
		}
	}
}

// reloadOnChange re-applies the session spec whenever a config file changes.
func reloadOnChange(watcher *configs.Watcher, specName string, d *director.Director) {
	for {
		select {
		case change, ok := <-watcher.Events:
			if !ok {
				return
			}
			if change.Kind != configs.ChangeSpec {
				log.Printf("simulate: %s changed, scenario reloads take effect on the next run", change.Path)
				continue
			}
			spec, err := configs.LoadSessionSpec(specName)
			if err != nil {
				log.Printf("simulate: reload %s: %v", change.Path, err)
				continue
			}
			cfg, err := spec.Config()
			if err != nil {
				log.Printf("simulate: reload %s: %v", change.Path, err)
				continue
			}
			if err := d.ApplyTuning(cfg); err != nil {
				log.Printf("simulate: apply tuning: %v", err)
				continue
			}
			log.Printf("simulate: applied tuning from %s", change.Path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("simulate: watch: %v", err)
		}
	}
}
