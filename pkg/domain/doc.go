/*
Package domain contains the shared models of the enigma machine simulator.

It defines the construction parameters of a machine (Settings), the named and
storable form of those parameters (KeySheet) and the error taxonomy used by every
other package. This package is kept free of I/O and of the cipher logic itself.

# Key Entities

  - Settings: rotor identities, starting code, ring offsets, plugboard pairs and punctuation mode.
  - KeySheet: a named Settings value, the unit persisted by key sheet stores.
  - ConfigError / AggregateError: construction failures, all unwrapping to ErrInvalidArgument.
*/
package domain
