// Package config provides configuration management for the indii chat service.
//
// # Overview
//
// The config package uses Viper to load configuration from YAML files and
// environment variables. The file lives at ~/.indii/config.yaml and is
// created with defaults on first use.
//
// # Environment Variables
//
// Scalar values can be overridden with the INDII_ prefix. Nested fields are
// separated by underscores.
//
// Examples:
//   - INDII_SERVER_PORT=8080
//   - INDII_LLM_DEFAULT_PROVIDER=openai
//   - INDII_LOGGING_LEVEL=debug
//
// Provider API keys left empty in the file are resolved from the vendor
// variables (GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY) by the llm
// package.
package config
