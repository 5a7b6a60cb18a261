/*
Package runner drives a cipher over a line-oriented stream.

It reads one line at a time, sanitizes it, encrypts every character and
writes the result. When prompting is enabled each line is requested with
"In: " and answered with "Out: ", the way an operator would use the machine
at a terminal.

# Usage

	m, _ := machine.New(nil, settings)
	r := runner.New(
		runner.WithInput(os.Stdin),
		runner.WithOutput(os.Stdout),
		runner.WithPrompt(true),
	)

	if err := r.Run(ctx, m); err != nil {
		log.Fatal(err)
	}
*/
package runner
