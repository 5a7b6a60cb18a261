/*
Package enigma simulates the Enigma family of rotor cipher machines.

A machine is a plugboard, three or five rotors and a reflector. Every key
press advances the rotor chain like an odometer and sends the letter through
the plugboard, the rotors, the reflector and back. Because the reflector is
an involution without fixed points, two machines built from identical
settings are reciprocal: one turns plaintext into ciphertext and the other
turns that ciphertext back into plaintext, and no letter ever encrypts to
itself.

# Usage

	m, err := enigma.New(enigma.Settings{
		Rotors:    []int{1, 2, 3},
		Code:      "AAA",
		Plugboard: []string{"AB", "CD"},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(m.EncryptString("Attack at dawn"))

# Layout

  - pkg/alphabet: letter arithmetic modulo 26.
  - pkg/wiring: the rotor and reflector tables, embedded or loaded from YAML/JSON.
  - pkg/machine: Rotor, Reflector, Plugboard and Machine.
  - pkg/session: shared, lockable machines over a key sheet store (memory or Redis).
  - pkg/runner: line-oriented stream driver.
  - pkg/adapters: HTTP and MCP servers, storage backends.
*/
package enigma
