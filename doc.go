// Package neat provides a Go implementation of a feed-forward flavour of the
// NeuroEvolution of Augmenting Topologies (NEAT) algorithm.
//
// Genomes are evolved by structural mutation (adding and removing links and
// neurons), numeric mutation of weights and biases, and crossover between a
// dominant and a recessive parent. Every genome is kept acyclic so it can be
// compiled into a layered feed-forward network. Species are not tracked: the
// top fraction of each generation breeds the next one.
//
// Basic usage:
//
//	// Load configuration
//	config, err := neat.LoadConfig("path/to/config")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	// Create and fill a population
//	pop, err := neat.NewPopulation(config, rand.New(rand.NewSource(1)))
//	if err != nil {
//		log.Fatalf("Error creating population: %v", err)
//	}
//	pop.Populate()
//
//	// Evolve against your fitness function
//	best, err := pop.Run(ctx, evaluate, config.Neat.NumGenerations)
//	if err != nil {
//		log.Fatalf("Error running evolution: %v", err)
//	}
//
// The evaluation function receives one individual at a time and may be called
// from several goroutines at once. Use nn.CreateFeedForwardNetwork to turn a
// genome into something that can be activated.
package neat
