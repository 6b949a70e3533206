package config

type WorkerKeyStruct struct {
	PersistResponsesQueue string
	BenchmarkEventsQueue  string
}

var WorkerKey = &WorkerKeyStruct{
	PersistResponsesQueue: "persist_responses_queue",
	BenchmarkEventsQueue:  "benchmark_events_queue",
}
