package engine

// NATS subjects making up the engine boundary. Commands are request/reply
// endpoints served by the engine; events are published by the engine at its
// own cadence.

const (
	SubjectCmdPageIndex        = "augur.cmd.get_page_index"
	SubjectCmdLoadData         = "augur.cmd.load_data"
	SubjectCmdDataInfo         = "augur.cmd.get_data_info"
	SubjectCmdSelectSheet      = "augur.cmd.select_sheet"
	SubjectCmdSubmitPreprocess = "augur.cmd.submit_preprocess_config"
	SubjectCmdStartTrain       = "augur.cmd.start_train"
	SubjectCmdTrainProgress    = "augur.cmd.get_train_progress"
	SubjectCmdEvaluation       = "augur.cmd.get_evaluation"
	SubjectCmdSavePrediction   = "augur.cmd.save_prediction"
	SubjectCmdRestart          = "augur.cmd.restart"
)

const (
	SubjectEventPageMove     = "augur.event.page.move"
	SubjectEventDialogError  = "augur.event.dialog.error"
	SubjectEventCorePanic    = "augur.event.core.panic"
	SubjectEventEvalProgress = "augur.event.evaluate.progress"
	SubjectEventTrainPoint   = "augur.event.train.progress.new"
)
