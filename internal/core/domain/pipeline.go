package domain

const (
	// PipelineFileName is the name of the pipeline file searched for in the working directory.
	PipelineFileName = "fileflow.yaml"
	// EnvFileName is the name of the optional dotenv file next to the pipeline file.
	EnvFileName = ".env"
	// TaskRefPrefix marks a command task input that refers to an earlier task's output.
	TaskRefPrefix = "@"
	// DefaultCommandOutput is the datatype of a command task that declares none.
	DefaultCommandOutput DatatypeName = "text"
)

// Pipeline is a pipeline definition loaded from a pipeline file.
type Pipeline struct {
	// Config is the engine configuration declared by the file.
	Config Config
	// Dir is the directory that contains the pipeline file. Relative input paths resolve against it.
	Dir string
	// Env holds the variables read from the dotenv file. They are passed to commands.
	Env map[string]string
	// Tasks are the command tasks in declaration order.
	Tasks []CommandTask
}

// Task returns the command task named name.
func (p *Pipeline) Task(name string) (*CommandTask, bool) {
	for i := range p.Tasks {
		if p.Tasks[i].Name == name {
			return &p.Tasks[i], true
		}
	}
	return nil, false
}

// CommandTask is a task that runs an external command to produce its output artifact.
type CommandTask struct {
	// Name is the function name of the task and the directory of its outputs.
	Name string
	// Command is the program and its arguments.
	Command []string
	// Inputs are absolute file paths or references ("@name") to earlier tasks.
	Inputs []string
	// Output is the datatype of the single output artifact.
	Output DatatypeName
	// Params are exported to the command and take part in the output path.
	Params map[string]string
	// Environment overrides variables of the command environment.
	Environment map[string]string
	// WorkingDir is the absolute directory the command runs in.
	WorkingDir string
}
