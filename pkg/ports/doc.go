/*
Package ports defines the driven ports (interfaces) of the simulator.

These interfaces decouple session management from the storage backends, so that
key sheets can live in memory for a single CLI run or in Redis for a shared server.

# Key Interfaces

  - KeySheetStore: persists and loads named machine settings.
  - DistributedLocker: serializes key sheet mutations across replicas.
*/
package ports
