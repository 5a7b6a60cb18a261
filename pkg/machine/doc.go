/*
Package machine implements the cryptographic state machine of the simulator.

A Machine is assembled from Settings and the static wiring tables: an ordered chain
of 3 or 5 rotors (stored rightmost first), the reflector and the plugboard. Every
letter follows the same path:

	plugboard -> step -> rotors (right to left) -> reflector -> rotors (left to right) -> plugboard

Stepping advances the rightmost rotor and carries to its left neighbor whenever the
rotor that just moved lands on its notch letter. The backward pass never steps.

Two machines built from identical settings are reciprocal: encrypting the ciphertext
of one with the other, both from their starting positions, yields the plaintext. A
single machine must be Reset between the two passes.

Non-letters bypass the cipher; they are kept or dropped depending on
Settings.DropPunctuation.
*/
package machine
