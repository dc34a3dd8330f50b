package buildpipeline

import "time"

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// EmitQueued marks every file as waiting to start.
func EmitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		if file == "" {
			continue
		}
		sink.OnEvent(Event{File: file, Status: StatusQueued})
	}
}

// EmitStage reports one stage transition for a set of files.
func EmitStage(sink ProgressSink, files []string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	for _, file := range files {
		if file == "" {
			continue
		}
		sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}

// EmitFile reports one stage transition for a single file.
func EmitFile(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil || file == "" {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}

// EmitPipeline reports a pipeline-wide stage transition (no file).
func EmitPipeline(sink ProgressSink, stage Stage, status Status) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: stage, Status: status})
}
