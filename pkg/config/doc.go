/*
Package config loads, validates and hot-reloads the poolsched rules
file.

The YAML document has four sections:

	timezone: Europe/Budapest
	schedules:
	  everyday:
	    - start: "0 20 * * *"
	      end: "0 6 * * *"
	      size: 0
	  none: {}
	rules:
	  - compartment: sandbox/devops
	    schedule: everyday
	  - schedule: none
	exceptions:
	  - comment: Weekend testing
	    compartment: sandbox/devops
	    start: 2025-12-19 18:00
	    end: 2025-12-22 06:00
	    size: on

Validation happens once at load time and produces typed immutable
values; a Snapshot is either fully valid or not produced at all. Every
failure is reported as a *Error carrying the option path that caused
it, e.g. "schedules.everyday[1].start".

Exception datetimes are interpreted in the configured timezone. An
exception size of "on" (or an absent size) suspends management for the
matching window instead of forcing a size; 0 is a real override.

The Store holds the current generation behind an atomic pointer.
Resolutions read the pointer once and keep that snapshot for their
whole evaluation, so a concurrent reload can never hand them a mix of
generations. The Watcher reloads on file change and discards configs
that fail validation.

Environment overrides: POOLSCHED_CONFIG selects the file path,
POOLSCHED_TIMEZONE overrides the timezone option.
*/
package config
