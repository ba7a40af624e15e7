package lib_test

import (
	"encoding/json"
	"fmt"

	"github.com/umputun/spamham/lib"
)

// ExampleEncode demonstrates how to encode a message and serialize it for the classifier.
func ExampleEncode() {
	m, err := lib.Encode([]string{"Hello, World! Hello again."}, 10)
	if err != nil {
		fmt.Println("Error encoding:", err)
		return
	}
	rows, cols := m.Shape()
	fmt.Println("shape:", rows, cols)

	data, err := json.Marshal(m)
	if err != nil {
		fmt.Println("Error marshaling:", err)
		return
	}
	fmt.Println(string(data))
	// Output:
	// shape: 1 10
	// [[0.0,0.0,0.0,0.0,0.0,1.0,0.0,0.0,1.0,1.0]]
}
