package exporter

// ProgressEvent 导出进度，Percent 由所处阶段决定
type ProgressEvent struct {
	Percent int
	Stage   string
}

// exportStage 导出流程的阶段，按执行顺序排列
type exportStage int

const (
	stageLoadPuzzles exportStage = iota
	stageLoadStats
	stageWritePuzzles
	stageWriteStats
	stageDone
)

var stageLabels = [...]string{
	stageLoadPuzzles:  "读取谜题",
	stageLoadStats:    "读取统计",
	stageWritePuzzles: "写入谜题",
	stageWriteStats:   "写入统计",
	stageDone:         "完成",
}

func (s exportStage) event() ProgressEvent {
	return ProgressEvent{
		Percent: int(s) * 100 / int(stageDone),
		Stage:   stageLabels[s],
	}
}

// progressFunc 允许为 nil
type progressFunc func(ProgressEvent)

func (fn progressFunc) enter(s exportStage) {
	if fn != nil {
		fn(s.event())
	}
}
