package enigma_test

import (
	"fmt"
	"log"

	"github.com/aretw0/enigma"
)

// ExampleNew shows the classic I-II-III, reflector B, AAA configuration.
func ExampleNew() {
	m, err := enigma.New(enigma.Settings{Rotors: []int{1, 2, 3}, Code: "AAA"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(m.EncryptString("AAAAA"))
	fmt.Println(m.Positions())
	// Output:
	// BDZGO
	// AAF
}

// ExampleEncrypt shows that identical settings undo each other.
func ExampleEncrypt() {
	settings := enigma.Settings{
		Rotors:    []int{5, 1, 3},
		Code:      "KEY",
		Plugboard: []string{"AQ", "WS"},
	}
	cipher, _ := enigma.Encrypt(settings, "Meet at noon.")
	plain, _ := enigma.Encrypt(settings, cipher)
	fmt.Println(plain)
	// Output: Meet at noon.
}
