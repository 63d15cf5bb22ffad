package main

import (
	"os"
	"path/filepath"

	"github.com/MaaXYZ/MaaCube/agent/go-service/config"
	"github.com/MaaXYZ/MaaCube/agent/go-service/cuberoll"
	maa "github.com/MaaXYZ/maa-framework-go/v4"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	logFile, err := initLogger(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}
	defer logFile.Close()

	log.Info().Str("version", Version).Msg("MaaCube Agent Service")

	if len(os.Args) < 2 {
		log.Fatal().Msg("Usage: go-service <identifier>")
	}

	identifier := os.Args[1]
	log.Info().Str("identifier", identifier).Msg("Starting agent server")

	// MAA libraries live in the maafw directory under the working directory
	libDir := filepath.Join(getCwd(), "maafw")
	log.Info().Str("libDir", libDir).Msg("Initializing MAA framework")
	if err := maa.Init(maa.WithLibDir(libDir)); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize MAA framework")
	}
	defer maa.Release()
	log.Info().Msg("MAA framework initialized")

	userPath := getCwd()
	if err := maa.ConfigInitOption(userPath, "{}"); err != nil {
		log.Warn().Str("userPath", userPath).Msg("Failed to init toolkit config option")
	} else {
		log.Info().Str("userPath", userPath).Msg("Toolkit config option initialized")
	}

	cuberoll.Register(cfg)
	log.Info().
		Str("resource", cfg.ResourceBase()).
		Int("max_cycles", cfg.MaxCycles).
		Str("default_stat", string(cfg.Stat())).
		Msg("Registered custom actions")

	if err := maa.AgentServerStartUp(identifier); err != nil {
		log.Fatal().Msg("Failed to start agent server")
	}
	log.Info().Msg("Agent server started")

	maa.AgentServerJoin()

	cuberoll.Shutdown()
	maa.AgentServerShutDown()
	log.Info().Msg("Agent server shutdown")
}

func getCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}
