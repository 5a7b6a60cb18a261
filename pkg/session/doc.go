/*
Package session implements shared, long-lived machines.

A session is a key sheet kept in a ports.KeySheetStore plus the machine built
from it. The Manager serializes every call on the same session with a
ref-counted local lock, and key sheet mutations can additionally be guarded by
a ports.DistributedLocker so several replicas can share one store.

Rotor positions live only in the process that advanced them.
*/
package session
