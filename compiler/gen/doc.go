// Package gen compiles model descriptions into SQLAlchemy model modules.
//
// Each description becomes one Python module holding a single declarative
// class: its column, foreign key and relationship declarations, followed by
// a fixed set of members (constructor, add, update, delete, to_dict, proxy
// helpers, hashing, equality and string representations).
//
// # Architecture
//
// The pipeline is:
//
//	load.Schema (compiler/load)
//	        ↓
//	   Type (derived facts: table name, attributes, primary keys, types)
//	        ↓
//	   member compilers (InitFunc, UpdateFunc, HashFunc, ...)
//	        ↓
//	   template.Class
//	        ↓
//	   Writer (one <Name>.py per model)
//
// Compile is a pure function of the description and the Config. Calling it
// twice with the same input yields byte-identical output.
//
// # Error Handling
//
// The package uses structured error types:
//
//   - ConfigError: Configuration errors
//   - GenerationError: Compile or write failures for one model
//
// Empty model names are reported with modelgen.InvalidNameError.
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithTarget("./Models"),
//	    gen.WithAuthor("jdoe"),
//	    gen.WithWorkers(4),
//	)
//
// # Usage
//
//	schemas, err := load.LoadFile("models.yaml")
//	if err != nil {
//	    return err
//	}
//	results, err := gen.NewWriter(cfg, logger).WriteAll(ctx, schemas)
//	if err != nil {
//	    return err
//	}
//	for _, r := range gen.Failed(results) {
//	    logger.Error("generate", zap.String("model", r.Entity), zap.Error(r.Err))
//	}
//
// # Code Organization
//
//   - compile.go: Member compilers and the assembler
//   - errors.go: Structured error types
//   - naming.go: Table name derivation
//   - option.go: Functional option pattern for configuration
//   - storage.go: Backend dialect descriptions
//   - type.go: Type and Attribute
//   - writer.go: Parallel module writer
package gen
