package consts

const (
	BOLTZMANN = 1.38e-23 // Boltzmann constant (J/K)
	KELVIN    = 273.15   // Kelvin temperature (K)
	ROOMTEMP  = 300.0    // Reference temperature for Landauer limit (K)
)
