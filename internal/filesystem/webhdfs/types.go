package webhdfs

import "errors"

// WebHDFS operation constants
const (
	OpGetFileStatus = "GETFILESTATUS"
	OpOpen          = "OPEN"
	OpCreate        = "CREATE"
	OpDelete        = "DELETE"
	OpMkdirs        = "MKDIRS"
)

const (
	apiPrefix = "/webhdfs/v1"

	typeDirectory = "DIRECTORY"

	exceptionFileNotFound  = "FileNotFoundException"
	exceptionNotEmpty      = "PathIsNotEmptyDirectoryException"
	exceptionAlreadyExists = "FileAlreadyExistsException"
)

var (
	// ErrNoNameNode is an error that occurs when neither the configuration
	// nor the path names a namenode to talk to.
	ErrNoNameNode = errors.New("no namenode address")

	// ErrRemote is an error that occurs when the namenode or a datanode
	// answers with an unexpected status.
	ErrRemote = errors.New("webhdfs request failed")

	// ErrNotPerformed is an error that occurs when the namenode reports that
	// an operation was not carried out.
	ErrNotPerformed = errors.New("webhdfs operation not performed")
)

// FileStatus represents HDFS file/directory metadata.
type FileStatus struct {
	AccessTime       int64  `json:"accessTime"`
	BlockSize        int64  `json:"blockSize"`
	Group            string `json:"group"`
	Length           int64  `json:"length"`
	ModificationTime int64  `json:"modificationTime"`
	Owner            string `json:"owner"`
	PathSuffix       string `json:"pathSuffix"`
	Permission       string `json:"permission"`
	Replication      int    `json:"replication"`
	Type             string `json:"type"` // FILE or DIRECTORY
}

// FileStatusResponse is the GETFILESTATUS response body.
type FileStatusResponse struct {
	FileStatus FileStatus `json:"FileStatus"`
}

// BooleanResponse is the response body of DELETE and MKDIRS.
type BooleanResponse struct {
	Boolean bool `json:"boolean"`
}

// RemoteException is the error payload of the WebHDFS API.
type RemoteException struct {
	Exception     string `json:"exception"`
	JavaClassName string `json:"javaClassName"`
	Message       string `json:"message"`
}

// RemoteExceptionResponse wraps a [RemoteException].
type RemoteExceptionResponse struct {
	RemoteException RemoteException `json:"RemoteException"`
}
