package neat

import (
	"fmt"
	"math"
)

// ActivationType defines the type for activation functions.
type ActivationType func(x float64) float64

// ActivationFunctions maps function names to the actual activation functions.
// This allows configuration to pick the hidden and output activations by name.
var ActivationFunctions = map[string]ActivationType{
	"relu":     ReLU,
	"identity": Identity,
	"sigmoid":  Sigmoid,
	"tanh":     Tanh,
	"clamped":  Clamped,
}

// GetActivation retrieves an activation function by name.
func GetActivation(name string) (ActivationType, error) {
	if fn, ok := ActivationFunctions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown activation function: %s", name)
}

// ReLU (Rectified Linear Unit) activation function.
func ReLU(x float64) float64 {
	return math.Max(0, x)
}

// Identity activation function (linear).
// Outputs stay linear so their raw magnitudes can be compared.
func Identity(x float64) float64 {
	return x
}

// Sigmoid activation function with the steepened slope used by NEAT.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-4.9*x))
}

// Tanh activation function.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}

// Clamped activation function (clamps output between -1 and 1).
func Clamped(x float64) float64 {
	return clamp(x, -1.0, 1.0)
}
