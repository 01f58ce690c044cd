// Package testutil provides utilities for testing homesick components.
//
// Key components:
//   - TestEnvironment: home directory, repos root and dependencies with cleanup
//   - FakeVCS: records version control calls instead of running git
//   - ScriptedPrompter: answers confirmations from a script
//   - RecordingReporter: captures status lines for assertions
//
// Usage guidelines:
//   - Planner and manifest tests use EnvMemoryOnly for speed and isolation
//   - Anything creating symlinks needs EnvIsolated, the memory filesystem
//     has no symlink support
//   - All test data should be defined inline, not in external files
package testutil
