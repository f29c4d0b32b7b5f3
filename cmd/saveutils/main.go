// Saveutils edits Shadows of Doubt save files.
// Usage: saveutils -i <save> <command> [flags]
package main

func main() {
	Execute()
}
