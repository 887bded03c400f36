package main

import (
	"flag"
	"os"

	"github.com/dfryer1193/inkwell/content/application"
	"github.com/dfryer1193/inkwell/content/persistence"
	"github.com/dfryer1193/inkwell/shared/config"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	strict := flag.Bool("strict", false, "exit non-zero when any file fails to compile")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := cfg.Level()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse log level")
	}
	parsers, err := application.ResolveParsers(
		application.ParserSpec{Name: cfg.Parsers.Metadata.Name, Options: cfg.Parsers.Metadata.Options},
		application.ParserSpec{Name: cfg.Parsers.Excerpt.Name, Options: cfg.Parsers.Excerpt.Options},
		application.ParserSpec{Name: cfg.Parsers.Body.Name, Options: cfg.Parsers.Body.Options},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve parsers")
	}

	compiler, err := application.NewCompiler(application.CompilerConfig{
		Root:      cfg.Root,
		Pattern:   cfg.Pattern,
		Delimiter: cfg.Delimiter,
		LogLevel:  level,
		Workers:   cfg.Workers,
		Parsers:   parsers,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure compiler")
	}

	repo, compileErrs, err := compiler.Compile()
	if err != nil {
		log.Fatal().Err(err).Msg("Compilation failed")
	}

	log.Info().
		Int("posts", repo.Len()).
		Int("errors", len(compileErrs)).
		Msg("Compilation finished")

	if cfg.Artifact != "" {
		if err := persistence.WriteArtifact(cfg.Artifact, repo); err != nil {
			log.Fatal().Err(err).Str("path", cfg.Artifact).Msg("Failed to write snapshot artifact")
		}
		log.Info().Str("path", cfg.Artifact).Msg("Snapshot artifact written")
	}

	if *strict && len(compileErrs) > 0 {
		os.Exit(1)
	}
}
