// Package domain defines the core domain types for the VoiceDesk voice-agent platform.
//
// This package contains the operational entities produced by the call flow
// (patients, appointments, conversations, call metrics, test scenarios) and
// the DemoConfig aggregate that parameterizes an agent's demo behavior.
//
// # Operational Entities
//
// Patient and Child model the caller's household. Appointment tracks a booked
// visit, optionally linked to one or more children. Conversation holds a call
// transcript as ordered turns plus the function calls the agent issued during
// the call. CallMetrics summarizes one conversation. TestScenario and
// TestExecution support regression testing of scripted calls.
//
// # DemoConfig Aggregate
//
// DemoConfig is a single logical object stored across a header row and seven
// satellite tables: business profile, agent config, scenario, tool configs,
// SMS templates, UI labels, and mock-data pools. DemoConfigBundle is the
// assembled in-memory form consumers work with.
//
// # Sparse Updates
//
// Every entity with a partial-update operation has an explicit Update struct
// whose fields are pointers; only non-nil fields are written. This keeps the
// update builders exhaustive rather than relying on map key-presence checks.
//
// # Design Principles
//
// - No database or external dependencies
// - Rich type system with meaningful constants and enumerations
// - Pure domain logic without infrastructure concerns
package domain
