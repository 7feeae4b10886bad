// Command lasctl inspects and converts LAS point cloud files.
package main

func main() {
	execute()
}
