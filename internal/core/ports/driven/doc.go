// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ParticleSource: Loads particles and measurement metadata from a data file
//   - DefinitionSource: Loads embedded or override set definitions
//   - GateEvaluator: Computes the members of a single set
//   - DefinitionSerializer: Renders a resolved SetsList as markup
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Analysis run history. Without it, runs are not persisted.
//   - MetricsRecorder: Classification and volume metrics.
//   - ResultExporter, MembershipExporter: File formats for driving adapters.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
